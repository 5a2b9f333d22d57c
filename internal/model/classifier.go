// Package model evaluates the pre-fitted classifier.
package model

// Classifier is the trained model as seen by the inference engine.
type Classifier interface {
	// NumFeatures is the input vector width the model was fitted on.
	NumFeatures() int
	// Classes returns the class identifiers in probability-column order.
	Classes() []int
	// PredictProba returns one probability per class for x.
	PredictProba(x []float64) ([]float64, error)
}
