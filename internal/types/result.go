package types

// Experience level labels produced by the classifier.
const (
	LevelJunior       = "Júnior"
	LevelPleno        = "Pleno"
	LevelSenior       = "Sênior"
	LevelEspecialista = "Especialista"

	// LevelUnknown is returned when the predicted class has no label.
	LevelUnknown = "Desconhecido"
)

// ExperienceLevels lists the closed label set in class-index order.
var ExperienceLevels = []string{LevelJunior, LevelPleno, LevelSenior, LevelEspecialista}

// ClassificationResult is the outcome of one classification.
type ClassificationResult struct {
	UserID                   string  `json:"userId"`
	PredictedExperienceLevel string  `json:"predictedExperienceLevel"`
	ConfidenceScore          float64 `json:"confidenceScore"`
	ContentHash              string  `json:"hash"`
}

// BatchItem pairs a classified payload with its result or failure.
type BatchItem struct {
	Source string                `json:"source"`
	UserID string                `json:"userId"`
	Result *ClassificationResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Items     []BatchItem    `json:"items"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	ByLevel   map[string]int `json:"byLevel"`
}

// MeanConfidence averages confidence over successful items.
func (b BatchResult) MeanConfidence() float64 {
	var sum float64
	var n int
	for _, item := range b.Items {
		if item.Result != nil {
			sum += item.Result.ConfidenceScore
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// BundleSummary describes a loaded artifact bundle.
type BundleSummary struct {
	Version             string         `json:"version"`
	Width               int            `json:"width"`
	ModelFeatures       int            `json:"modelFeatures"`
	NumericOrder        []string       `json:"numericOrder"`
	Blocks              []BlockSummary `json:"blocks"`
	EducationCategories []string       `json:"educationCategories"`
	EducationFallback   []string       `json:"educationFallback"`
	Labels              []string       `json:"labels"`
}

// BlockSummary locates one encoder block in the input vector.
type BlockSummary struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
	Width  int    `json:"width"`
}
