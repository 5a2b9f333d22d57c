// Package features derives the intermediate feature record from a resume.
package features

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"talentflow/internal/types"
	"talentflow/internal/utils"
)

const daysPerYear = 365.25

// educationRank orders the academic levels seen at training time. Levels
// absent from the table rank with Nenhum; on a tie the first formation wins.
var educationRank = map[string]int{
	"Nenhum":         0,
	"Técnico":        1,
	"Graduação":      2,
	"Especialização": 3,
	"MBA":            3,
	"Pós-graduação":  3,
	"Mestrado":       4,
	"Doutorado":      5,
}

// Extractor turns resume records into IntermediateFeatures.
type Extractor struct {
	// Now supplies the end instant for ongoing experiences.
	// Defaults to time.Now.
	Now func() time.Time
}

// NewExtractor returns an Extractor using the wall clock.
func NewExtractor() *Extractor {
	return &Extractor{Now: time.Now}
}

// Extract derives the feature record. It never fails: entries with
// unparseable dates contribute no duration and unknown categories pass
// through unchanged for the encoder to resolve.
func (e *Extractor) Extract(resume *types.ResumeRecord) *types.IntermediateFeatures {
	now := time.Now
	if e != nil && e.Now != nil {
		now = e.Now
	}

	out := &types.IntermediateFeatures{
		HighestEducationLevel: types.EducationNone,
		Technologies:          []string{},
		SoftSkills:            []string{},
	}
	if resume == nil {
		return out
	}

	out.TotalYearsExperience = totalYears(resume.ProfessionalExperiences, now().UTC())
	out.NumberOfJobs = len(resume.ProfessionalExperiences)
	if out.NumberOfJobs > 0 {
		out.AvgYearsPerJob = out.TotalYearsExperience / float64(out.NumberOfJobs)
	}
	out.HighestEducationLevel = highestEducation(resume.AcademicFormations)
	out.Technologies, out.SoftSkills = collectLabels(resume.ProfessionalExperiences)
	out.FullText = fullText(resume)
	return out
}

func totalYears(experiences []types.ProfessionalExperience, now time.Time) float64 {
	var days float64
	for _, exp := range experiences {
		start, ok := utils.ParseDate(types.Value(exp.StartDate))
		if !ok {
			continue
		}
		end := now
		if !exp.Current() && exp.EndDate != nil {
			parsed, ok := utils.ParseDate(*exp.EndDate)
			if !ok {
				continue
			}
			end = parsed
		}
		// whole days, as timedelta.days would report them
		elapsed := math.Floor(end.Sub(start).Hours() / 24)
		if elapsed > 0 {
			days += elapsed
		}
	}
	return roundOneDecimal(days / daysPerYear)
}

// roundOneDecimal rounds half-to-even on the decimal representation, which
// matches the rounding used when the scaler was fitted.
func roundOneDecimal(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}

func highestEducation(formations []types.AcademicFormation) string {
	if len(formations) == 0 {
		return types.EducationNone
	}
	best := levelOf(formations[0])
	bestRank := rankOf(best)
	for _, f := range formations[1:] {
		level := levelOf(f)
		if r := rankOf(level); r > bestRank {
			best, bestRank = level, r
		}
	}
	return best
}

func levelOf(f types.AcademicFormation) string {
	if f.Level == nil {
		return types.EducationNone
	}
	return *f.Level
}

func rankOf(level string) int {
	if r, ok := educationRank[level]; ok {
		return r
	}
	return 0
}

func collectLabels(experiences []types.ProfessionalExperience) (techs, skills []string) {
	techSet := make(map[string]struct{})
	skillSet := make(map[string]struct{})
	for _, exp := range experiences {
		for _, act := range exp.ActivitiesPerformed {
			for _, t := range act.Technologies {
				techSet[t] = struct{}{}
			}
			for _, s := range act.AppliedSoftSkills {
				skillSet[s] = struct{}{}
			}
		}
	}
	return sortedKeys(techSet), sortedKeys(skillSet)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func fullText(resume *types.ResumeRecord) string {
	var parts []string
	add := func(s *string) {
		if s == nil {
			return
		}
		if t := strings.TrimSpace(*s); t != "" {
			parts = append(parts, t)
		}
	}

	add(resume.Summary)
	for _, exp := range resume.ProfessionalExperiences {
		for _, act := range exp.ActivitiesPerformed {
			add(act.Activity)
			add(act.ProblemSolved)
		}
	}
	return strings.Join(parts, " ")
}
