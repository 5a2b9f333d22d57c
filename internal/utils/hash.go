package utils

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"talentflow/internal/types"
)

// ContentHash returns the hex SHA-256 of the resume's canonical form.
func ContentHash(resume *types.ResumeRecord) (string, error) {
	canonical, err := CanonicalJSON(resume)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// CanonicalJSON renders the resume with object keys sorted, parseable dates
// normalised to RFC 3339 UTC and absent lists rendered as empty lists.
// Dates that do not parse are kept verbatim.
func CanonicalJSON(resume *types.ResumeRecord) ([]byte, error) {
	if resume == nil {
		return nil, fmt.Errorf("resume is nil")
	}

	raw, err := json.Marshal(normalize(resume))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	// Decoding into generic maps lets the encoder emit keys in sorted order.
	var generic any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("failed to decode resume: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("failed to encode canonical resume: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func normalize(in *types.ResumeRecord) types.ResumeRecord {
	out := *in
	out.AcademicFormations = make([]types.AcademicFormation, len(in.AcademicFormations))
	for i, f := range in.AcademicFormations {
		f.StartDate = normalizeDate(f.StartDate)
		f.EndDate = normalizeDate(f.EndDate)
		out.AcademicFormations[i] = f
	}

	out.ProfessionalExperiences = make([]types.ProfessionalExperience, len(in.ProfessionalExperiences))
	for i, exp := range in.ProfessionalExperiences {
		exp.StartDate = normalizeDate(exp.StartDate)
		exp.EndDate = normalizeDate(exp.EndDate)
		acts := make([]types.ActivityPerformed, len(exp.ActivitiesPerformed))
		for j, act := range exp.ActivitiesPerformed {
			act.Technologies = nonNil(act.Technologies)
			act.AppliedSoftSkills = nonNil(act.AppliedSoftSkills)
			acts[j] = act
		}
		exp.ActivitiesPerformed = acts
		out.ProfessionalExperiences[i] = exp
	}

	out.Languages = nonNil(in.Languages)
	return out
}

func normalizeDate(value *string) *string {
	if value == nil {
		return nil
	}
	t, ok := ParseDate(*value)
	if !ok {
		return value
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
