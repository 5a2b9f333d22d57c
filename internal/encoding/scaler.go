package encoding

import (
	"fmt"

	"talentflow/internal/types"
)

// MinMaxScaler applies x*scale + min to each numeric feature, in the
// column order the scaler was fitted with.
type MinMaxScaler struct {
	columns []string
	min     []float64
	scale   []float64
}

// NewMinMaxScaler validates the fitted parameters against the column order.
func NewMinMaxScaler(columns []string, min, scale []float64) (*MinMaxScaler, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("scaler has no columns")
	}
	if len(min) != len(columns) || len(scale) != len(columns) {
		return nil, fmt.Errorf("scaler arity mismatch: %d columns, %d min, %d scale",
			len(columns), len(min), len(scale))
	}
	for _, name := range columns {
		if !types.IsNumericFeature(name) {
			return nil, fmt.Errorf("unknown numeric feature %q", name)
		}
	}
	return &MinMaxScaler{
		columns: append([]string(nil), columns...),
		min:     append([]float64(nil), min...),
		scale:   append([]float64(nil), scale...),
	}, nil
}

func (s *MinMaxScaler) Width() int { return len(s.columns) }

func (s *MinMaxScaler) FeatureNames() []string {
	return append([]string(nil), s.columns...)
}

func (s *MinMaxScaler) Transform(f *types.IntermediateFeatures, dst []float64) {
	for i, name := range s.columns {
		v, _ := f.Numeric(name)
		dst[i] = v*s.scale[i] + s.min[i]
	}
}
