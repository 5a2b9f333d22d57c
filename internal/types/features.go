package types

// Numeric feature names as they appear in the fitted scaler's column order.
const (
	FeatureTotalYearsExperience = "totalYearsExperience"
	FeatureNumberOfJobs         = "numberOfJobs"
	FeatureAvgYearsPerJob       = "avgYearsPerJob"
)

// NumericFeatureNames lists every numeric feature the extractor produces.
var NumericFeatureNames = []string{
	FeatureTotalYearsExperience,
	FeatureNumberOfJobs,
	FeatureAvgYearsPerJob,
}

// EducationNone is the highest-education sentinel for resumes without
// academic formations.
const EducationNone = "Nenhum"

// IntermediateFeatures is the per-request, semantically typed view of a
// resume that the encoder turns into the model's input vector.
type IntermediateFeatures struct {
	TotalYearsExperience  float64  `json:"totalYearsExperience"`
	NumberOfJobs          int      `json:"numberOfJobs"`
	AvgYearsPerJob        float64  `json:"avgYearsPerJob"`
	HighestEducationLevel string   `json:"highestEducationLevel"`
	Technologies          []string `json:"technologies"`
	SoftSkills            []string `json:"softSkills"`
	FullText              string   `json:"fullText"`
}

// Numeric returns the named numeric feature.
func (f *IntermediateFeatures) Numeric(name string) (float64, bool) {
	switch name {
	case FeatureTotalYearsExperience:
		return f.TotalYearsExperience, true
	case FeatureNumberOfJobs:
		return float64(f.NumberOfJobs), true
	case FeatureAvgYearsPerJob:
		return f.AvgYearsPerJob, true
	default:
		return 0, false
	}
}

// IsNumericFeature reports whether name is a known numeric feature.
func IsNumericFeature(name string) bool {
	var f IntermediateFeatures
	_, ok := f.Numeric(name)
	return ok
}
