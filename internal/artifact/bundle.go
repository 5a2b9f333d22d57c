// Package artifact loads the fitted classifier and preprocessing bundle
// produced by training.
package artifact

import (
	"fmt"
	"slices"

	"talentflow/internal/encoding"
	"talentflow/internal/types"
)

// Bundle is the fitted preprocessing state. It is built once at startup and
// only read afterwards.
type Bundle struct {
	Version      string
	NumericOrder []string
	Scaler       *encoding.MinMaxScaler
	Education    *encoding.OneHotEncoder
	Technologies *encoding.MultiLabelBinarizer
	Skills       *encoding.MultiLabelBinarizer
	Text         *encoding.TFIDFVectorizer
	Labels       LabelMapping

	pipeline *encoding.Pipeline
}

// NewBundle assembles the encoding pipeline from fitted transformers.
func NewBundle(version string, scaler *encoding.MinMaxScaler, education *encoding.OneHotEncoder,
	technologies, skills *encoding.MultiLabelBinarizer, text *encoding.TFIDFVectorizer, labels LabelMapping) *Bundle {
	return &Bundle{
		Version:      version,
		NumericOrder: scaler.FeatureNames(),
		Scaler:       scaler,
		Education:    education,
		Technologies: technologies,
		Skills:       skills,
		Text:         text,
		Labels:       labels,
		pipeline:     encoding.NewPipeline(scaler, education, technologies, skills, text),
	}
}

// Pipeline returns the ordered encoder.
func (b *Bundle) Pipeline() *encoding.Pipeline { return b.pipeline }

// Encode builds the classifier input vector for f.
func (b *Bundle) Encode(f *types.IntermediateFeatures) []float64 {
	return b.pipeline.Encode(f)
}

// Summary describes the bundle layout for inspection and health output.
func (b *Bundle) Summary(numFeatures int) types.BundleSummary {
	s := types.BundleSummary{
		Version:             b.Version,
		Width:               b.pipeline.Width(),
		ModelFeatures:       numFeatures,
		NumericOrder:        slices.Clone(b.NumericOrder),
		EducationCategories: b.Education.Categories(),
		Labels:              b.Labels.Labels(),
	}
	for _, span := range b.pipeline.Layout() {
		s.Blocks = append(s.Blocks, types.BlockSummary{Name: span.Name, Offset: span.Offset, Width: span.Width})
	}
	for _, rule := range b.Education.Fallback() {
		s.EducationFallback = append(s.EducationFallback, rule.Description)
	}
	return s
}

// LabelMapping is the bijection between experience-level labels and the
// classifier's class identifiers.
type LabelMapping struct {
	byIndex map[int]string
	order   []int
}

// NewLabelMapping inverts a label -> class mapping. Two labels sharing a
// class is rejected.
func NewLabelMapping(mapping map[string]int) (LabelMapping, error) {
	if len(mapping) == 0 {
		return LabelMapping{}, fmt.Errorf("label mapping is empty")
	}
	m := LabelMapping{byIndex: make(map[int]string, len(mapping))}
	for label, idx := range mapping {
		if prev, dup := m.byIndex[idx]; dup {
			return LabelMapping{}, fmt.Errorf("labels %q and %q share class %d", prev, label, idx)
		}
		m.byIndex[idx] = label
		m.order = append(m.order, idx)
	}
	slices.Sort(m.order)
	return m, nil
}

// Decode returns the label for a class identifier.
func (m LabelMapping) Decode(class int) (string, bool) {
	label, ok := m.byIndex[class]
	return label, ok
}

// Labels returns the labels ordered by class identifier.
func (m LabelMapping) Labels() []string {
	labels := make([]string, len(m.order))
	for i, idx := range m.order {
		labels[i] = m.byIndex[idx]
	}
	return labels
}
