package encoding

import (
	"fmt"

	"talentflow/internal/types"
)

// LabelField selects the label set a binarizer reads.
type LabelField func(f *types.IntermediateFeatures) []string

var (
	TechnologiesField LabelField = func(f *types.IntermediateFeatures) []string { return f.Technologies }
	SoftSkillsField   LabelField = func(f *types.IntermediateFeatures) []string { return f.SoftSkills }
)

// MultiLabelBinarizer marks one column per fitted class present in the label
// set. Matching is exact; labels outside the fitted classes are dropped.
type MultiLabelBinarizer struct {
	prefix  string
	classes []string
	index   map[string]int
	field   LabelField
}

func NewMultiLabelBinarizer(prefix string, classes []string, field LabelField) (*MultiLabelBinarizer, error) {
	if field == nil {
		return nil, fmt.Errorf("binarizer %s has no label field", prefix)
	}
	index := indexOf(classes)
	if len(index) != len(classes) {
		return nil, fmt.Errorf("binarizer %s classes contain duplicates", prefix)
	}
	return &MultiLabelBinarizer{
		prefix:  prefix,
		classes: append([]string(nil), classes...),
		index:   index,
		field:   field,
	}, nil
}

func (b *MultiLabelBinarizer) Classes() []string {
	return append([]string(nil), b.classes...)
}

func (b *MultiLabelBinarizer) Width() int { return len(b.classes) }

func (b *MultiLabelBinarizer) FeatureNames() []string {
	names := make([]string, len(b.classes))
	for i, c := range b.classes {
		names[i] = b.prefix + "_" + c
	}
	return names
}

func (b *MultiLabelBinarizer) Transform(f *types.IntermediateFeatures, dst []float64) {
	for _, label := range b.field(f) {
		if i, ok := b.index[label]; ok {
			dst[i] = 1
		}
	}
}
