package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow/internal/types"
)

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func experience(start, end string, current bool, acts ...types.ActivityPerformed) types.ProfessionalExperience {
	exp := types.ProfessionalExperience{
		IsCurrent:           types.Ptr(current),
		ActivitiesPerformed: acts,
	}
	if start != "" {
		exp.StartDate = types.Ptr(start)
	}
	if end != "" {
		exp.EndDate = types.Ptr(end)
	}
	return exp
}

func TestExtractEmptyExperience(t *testing.T) {
	e := &Extractor{Now: fixedClock("2025-06-20")}

	f := e.Extract(&types.ResumeRecord{UserID: "u1"})

	assert.Equal(t, 0, f.NumberOfJobs)
	assert.Equal(t, 0.0, f.TotalYearsExperience)
	assert.Equal(t, 0.0, f.AvgYearsPerJob)
	assert.Equal(t, types.EducationNone, f.HighestEducationLevel)
	assert.Empty(t, f.Technologies)
	assert.Empty(t, f.SoftSkills)
	assert.Equal(t, "", f.FullText)
}

func TestExtractTwoExperiences(t *testing.T) {
	e := &Extractor{Now: fixedClock("2025-06-20")}
	resume := &types.ResumeRecord{
		UserID: "gen_user_1",
		ProfessionalExperiences: []types.ProfessionalExperience{
			experience("2024-06-25", "2025-06-20", false),
			experience("2024-12-22", "", true),
		},
	}

	f := e.Extract(resume)

	// 360 + 180 days
	assert.Equal(t, 1.5, f.TotalYearsExperience)
	assert.Equal(t, 2, f.NumberOfJobs)
	assert.Equal(t, 0.75, f.AvgYearsPerJob)
}

func TestExtractSkipsUnparseableDates(t *testing.T) {
	e := &Extractor{Now: fixedClock("2025-01-01")}
	resume := &types.ResumeRecord{
		UserID: "u1",
		ProfessionalExperiences: []types.ProfessionalExperience{
			experience("2020-01-01", "2024-01-01", false),
			experience("sometime in 2019", "2020-01-01", false),
			experience("", "", true),
		},
	}

	f := e.Extract(resume)

	// 1461 days / 365.25
	assert.Equal(t, 4.0, f.TotalYearsExperience)
	assert.Equal(t, 3, f.NumberOfJobs)
	assert.InDelta(t, 4.0/3.0, f.AvgYearsPerJob, 1e-12)
}

func TestExtractUnparseableEndDateDropsEntry(t *testing.T) {
	e := &Extractor{Now: fixedClock("2025-01-01")}
	resume := &types.ResumeRecord{
		UserID: "u1",
		ProfessionalExperiences: []types.ProfessionalExperience{
			experience("2024-01-01", "01/06/2024", false),
		},
	}

	f := e.Extract(resume)

	// not measured up to now
	assert.Equal(t, 0.0, f.TotalYearsExperience)
	assert.Equal(t, 1, f.NumberOfJobs)
}

func TestExtractCurrentIgnoresEndDate(t *testing.T) {
	e := &Extractor{Now: fixedClock("2021-01-01")}
	resume := &types.ResumeRecord{
		UserID: "u1",
		ProfessionalExperiences: []types.ProfessionalExperience{
			experience("2020-01-01", "2020-02-01", true),
		},
	}

	f := e.Extract(resume)

	assert.Equal(t, 1.0, f.TotalYearsExperience)
}

func TestExtractNegativeDurationContributesNothing(t *testing.T) {
	e := &Extractor{Now: fixedClock("2025-01-01")}
	resume := &types.ResumeRecord{
		UserID: "u1",
		ProfessionalExperiences: []types.ProfessionalExperience{
			experience("2024-01-01", "2023-01-01", false),
			experience("2023-01-01", "2024-01-01", false),
		},
	}

	f := e.Extract(resume)

	assert.Equal(t, 1.0, f.TotalYearsExperience)
}

func TestHighestEducation(t *testing.T) {
	level := func(s string) types.AcademicFormation {
		return types.AcademicFormation{Level: types.Ptr(s)}
	}

	tests := []struct {
		name       string
		formations []types.AcademicFormation
		want       string
	}{
		{"empty", nil, "Nenhum"},
		{"single", []types.AcademicFormation{level("Técnico")}, "Técnico"},
		{"highest wins", []types.AcademicFormation{level("Graduação"), level("Doutorado"), level("Mestrado")}, "Doutorado"},
		{"tie keeps first", []types.AcademicFormation{level("MBA"), level("Pós-graduação")}, "MBA"},
		{"unknown kept when first", []types.AcademicFormation{level("Bootcamp")}, "Bootcamp"},
		{"known beats unknown", []types.AcademicFormation{level("Bootcamp"), level("Técnico")}, "Técnico"},
		{"unknown ties with Nenhum, first wins", []types.AcademicFormation{level("Bootcamp"), level("Nenhum")}, "Bootcamp"},
		{"Nenhum ties with unknown, first wins", []types.AcademicFormation{level("Nenhum"), level("Bootcamp")}, "Nenhum"},
		{"nil level", []types.AcademicFormation{{}}, "Nenhum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewExtractor().Extract(&types.ResumeRecord{UserID: "u", AcademicFormations: tt.formations})
			assert.Equal(t, tt.want, f.HighestEducationLevel)
		})
	}
}

func TestExtractLabelsAndText(t *testing.T) {
	resume := &types.ResumeRecord{
		UserID:  "u1",
		Summary: types.Ptr("  Desenvolvedora backend. "),
		ProfessionalExperiences: []types.ProfessionalExperience{
			experience("2024-01-01", "2024-06-01", false,
				types.ActivityPerformed{
					Activity:          types.Ptr("Migrei serviços"),
					ProblemSolved:     types.Ptr(""),
					Technologies:      []string{"Go", "Docker"},
					AppliedSoftSkills: []string{"Comunicação"},
				},
				types.ActivityPerformed{
					ProblemSolved: types.Ptr("Reduzi latência"),
					Technologies:  []string{"Go", "Redis"},
				},
			),
			experience("2024-06-01", "", true,
				types.ActivityPerformed{
					Activity:          types.Ptr("Liderei squad"),
					AppliedSoftSkills: []string{"Liderança", "Comunicação"},
				},
			),
		},
	}

	f := NewExtractor().Extract(resume)

	assert.Equal(t, []string{"Docker", "Go", "Redis"}, f.Technologies)
	assert.Equal(t, []string{"Comunicação", "Liderança"}, f.SoftSkills)
	assert.Equal(t, "Desenvolvedora backend. Migrei serviços Reduzi latência Liderei squad", f.FullText)
}

func TestExtractIsDeterministic(t *testing.T) {
	e := &Extractor{Now: fixedClock("2025-06-20")}
	resume := &types.ResumeRecord{
		UserID: "u1",
		ProfessionalExperiences: []types.ProfessionalExperience{
			experience("2020-03-01", "", true, types.ActivityPerformed{
				Technologies: []string{"Python", "Go", "Kubernetes", "Go"},
			}),
		},
	}

	first := e.Extract(resume)
	second := e.Extract(resume)
	require.Equal(t, first, second)
}
