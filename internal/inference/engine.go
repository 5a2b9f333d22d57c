// Package inference runs the classifier on an encoded vector and decodes
// its output.
package inference

import (
	"fmt"

	"talentflow/internal/errors"
	"talentflow/internal/model"
	"talentflow/internal/types"
)

// LabelDecoder maps a class identifier to its label.
type LabelDecoder interface {
	Decode(class int) (string, bool)
}

// Prediction is the decoded classifier output.
type Prediction struct {
	Label         string
	Confidence    float64
	ClassIndex    int
	Class         int
	Probabilities []float64
}

// Classify returns the most probable class for vector. Ties go to the
// lowest probability column. Any classifier failure, including a panic, is
// reported as INFERENCE_FAILED.
func Classify(vector []float64, clf model.Classifier, labels LabelDecoder) (pred Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewInferenceError(errors.ErrCodeInferenceFailed,
				"classifier panicked", fmt.Errorf("%v", r))
		}
	}()

	if n := clf.NumFeatures(); len(vector) != n {
		return Prediction{}, errors.NewInferenceError(errors.ErrCodeInferenceFailed,
			fmt.Sprintf("vector has %d features, model expects %d", len(vector), n), nil)
	}

	proba, err := clf.PredictProba(vector)
	if err != nil {
		return Prediction{}, errors.NewInferenceError(errors.ErrCodeInferenceFailed,
			"classifier failed", err)
	}
	classes := clf.Classes()
	if len(proba) == 0 || len(proba) != len(classes) {
		return Prediction{}, errors.NewInferenceError(errors.ErrCodeInferenceFailed,
			fmt.Sprintf("classifier returned %d probabilities for %d classes", len(proba), len(classes)), nil)
	}

	best := 0
	for i, p := range proba {
		if p > proba[best] {
			best = i
		}
	}

	label, ok := labels.Decode(classes[best])
	if !ok {
		label = types.LevelUnknown
	}
	return Prediction{
		Label:         label,
		Confidence:    proba[best],
		ClassIndex:    best,
		Class:         classes[best],
		Probabilities: proba,
	}, nil
}
