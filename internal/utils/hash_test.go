package utils

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow/internal/types"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestCanonicalJSONMinimalRecord(t *testing.T) {
	out, err := CanonicalJSON(&types.ResumeRecord{UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, `{"academicFormations":[],"email":null,"experienceLevel":null,"fullName":null,`+
		`"languages":[],"linkedinUrl":null,"mainArea":null,"phone":null,"professionalExperiences":[],`+
		`"status":null,"summary":null,"userId":"u1"}`, string(out))

	sum, err := ContentHash(&types.ResumeRecord{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "cfd9490fd00f7cbfc28919fb0abb3b5f8284d9d6b6dfe2a3249ba6d03ebe6305", sum)
}

func TestContentHashIgnoresFieldOrder(t *testing.T) {
	a := `{"userId":"u1","summary":"Dev <Go> & Rust","professionalExperiences":[{"role":"Dev","startDate":"2024-01-01","isCurrent":true}]}`
	b := `{"professionalExperiences":[{"isCurrent":true,"startDate":"2024-01-01","role":"Dev"}],"summary":"Dev <Go> & Rust","userId":"u1"}`

	var ra, rb types.ResumeRecord
	require.NoError(t, json.Unmarshal([]byte(a), &ra))
	require.NoError(t, json.Unmarshal([]byte(b), &rb))

	ha, err := ContentHash(&ra)
	require.NoError(t, err)
	hb, err := ContentHash(&rb)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.Regexp(t, hexDigest, ha)
}

func TestContentHashNormalizesDates(t *testing.T) {
	dateOnly := &types.ResumeRecord{
		UserID: "u1",
		ProfessionalExperiences: []types.ProfessionalExperience{
			{StartDate: types.Ptr("2024-06-25")},
		},
	}
	timestamp := &types.ResumeRecord{
		UserID: "u1",
		ProfessionalExperiences: []types.ProfessionalExperience{
			{StartDate: types.Ptr("2024-06-24T21:00:00-03:00")},
		},
	}

	h1, err := ContentHash(dateOnly)
	require.NoError(t, err)
	h2, err := ContentHash(timestamp)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	out, err := CanonicalJSON(dateOnly)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"startDate":"2024-06-25T00:00:00Z"`)
}

func TestContentHashKeepsUnparseableDates(t *testing.T) {
	r := &types.ResumeRecord{
		UserID: "u1",
		ProfessionalExperiences: []types.ProfessionalExperience{
			{StartDate: types.Ptr("junho de 2020")},
		},
	}

	out, err := CanonicalJSON(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"startDate":"junho de 2020"`)
	// input is not modified
	assert.Equal(t, "junho de 2020", *r.ProfessionalExperiences[0].StartDate)
}

func TestContentHashDistinguishesContent(t *testing.T) {
	base := &types.ResumeRecord{UserID: "u1", Summary: types.Ptr("Backend")}
	other := &types.ResumeRecord{UserID: "u1", Summary: types.Ptr("Frontend")}
	empty := &types.ResumeRecord{UserID: "u1", Summary: types.Ptr("")}
	absent := &types.ResumeRecord{UserID: "u1"}

	hashes := map[string]bool{}
	for _, r := range []*types.ResumeRecord{base, other, empty, absent} {
		h, err := ContentHash(r)
		require.NoError(t, err)
		hashes[h] = true
	}
	assert.Len(t, hashes, 4)
}

func TestContentHashNilAndEmptyListsMatch(t *testing.T) {
	withNil := &types.ResumeRecord{UserID: "u1", Languages: nil}
	withEmpty := &types.ResumeRecord{UserID: "u1", Languages: []types.LanguageEntry{}}

	h1, err := ContentHash(withNil)
	require.NoError(t, err)
	h2, err := ContentHash(withEmpty)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestContentHashNil(t *testing.T) {
	_, err := ContentHash(nil)
	assert.Error(t, err)
}
