// Package artifacttest provides a small fitted bundle and sample resumes
// for tests.
//
// The bundle has an 18 column layout: 3 numeric, 5 education, 4
// technologies, 2 skills and 4 text columns. Its forest holds three stumps
// splitting on total years (column 0), "Cloud Computing" (column 8) and
// number of jobs (column 1).
package artifacttest

import (
	"context"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"talentflow/internal/artifact"
	"talentflow/internal/model"
	"talentflow/internal/types"
)

var (
	//go:embed testdata/model.json
	ModelJSON []byte
	//go:embed testdata/preprocessors.json
	PreprocessorsJSON []byte
	//go:embed testdata/gen_user_1.json
	SampleResumeJSON []byte
)

// Width is the encoded vector width of the fixture bundle.
const Width = 18

// SampleResumeHash is the content hash of SampleResumeJSON.
const SampleResumeHash = "48c347f58e5b373aaf4ccef9e9471d71938d35a695c9f4c3d282063fb60fb7eb"

// Now is the reference instant the sample resumes are evaluated at.
func Now() time.Time {
	return time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
}

// WriteFiles writes the fixture artifacts into dir.
func WriteFiles(t testing.TB, dir string) (modelPath, preprocessorsPath string) {
	t.Helper()
	modelPath = filepath.Join(dir, "model.json")
	preprocessorsPath = filepath.Join(dir, "preprocessors.json")
	require.NoError(t, os.WriteFile(modelPath, ModelJSON, 0o600))
	require.NoError(t, os.WriteFile(preprocessorsPath, PreprocessorsJSON, 0o600))
	return modelPath, preprocessorsPath
}

// Load loads the fixture artifacts through the regular loader.
func Load(t testing.TB) (model.Classifier, *artifact.Bundle) {
	t.Helper()
	modelPath, preprocessorsPath := WriteFiles(t, t.TempDir())
	clf, bundle, err := artifact.Load(context.Background(), modelPath, preprocessorsPath)
	require.NoError(t, err)
	return clf, bundle
}

// SampleResume is a junior designer with two recent jobs and a master's
// degree.
func SampleResume(t testing.TB) *types.ResumeRecord {
	t.Helper()
	var r types.ResumeRecord
	require.NoError(t, json.Unmarshal(SampleResumeJSON, &r))
	return &r
}

// SeniorResume has four consecutive jobs covering ten years up to Now.
func SeniorResume() *types.ResumeRecord {
	job := func(start, end string, acts ...types.ActivityPerformed) types.ProfessionalExperience {
		e := types.ProfessionalExperience{
			Role:                types.Ptr("Engenheiro de Software"),
			StartDate:           types.Ptr(start),
			IsCurrent:           types.Ptr(end == ""),
			ActivitiesPerformed: acts,
		}
		if end != "" {
			e.EndDate = types.Ptr(end)
		}
		return e
	}
	return &types.ResumeRecord{
		UserID:  "senior_1",
		Summary: types.Ptr("Engenheiro backend com foco em dados."),
		AcademicFormations: []types.AcademicFormation{
			{Level: types.Ptr("Graduação")},
		},
		ProfessionalExperiences: []types.ProfessionalExperience{
			job("2015-06-20", "2018-01-01", types.ActivityPerformed{
				Activity:     types.Ptr("Construí APIs backend"),
				Technologies: []string{"Python"},
			}),
			job("2018-01-01", "2020-06-01", types.ActivityPerformed{
				Technologies:      []string{"Go"},
				AppliedSoftSkills: []string{"Liderança"},
			}),
			job("2020-06-01", "2023-01-01"),
			job("2023-01-01", ""),
		},
	}
}
