package types

import "strings"

// ResumeRecord is the classification payload. Optional scalars are pointers
// so that an absent field and an empty one stay distinguishable when the
// payload is hashed.
type ResumeRecord struct {
	UserID                  string                   `json:"userId"`
	FullName                *string                  `json:"fullName"`
	Email                   *string                  `json:"email"`
	Phone                   *string                  `json:"phone"`
	LinkedinURL             *string                  `json:"linkedinUrl"`
	MainArea                *string                  `json:"mainArea"`
	ExperienceLevel         *string                  `json:"experienceLevel"`
	Summary                 *string                  `json:"summary"`
	AcademicFormations      []AcademicFormation      `json:"academicFormations"`
	ProfessionalExperiences []ProfessionalExperience `json:"professionalExperiences"`
	Languages               []LanguageEntry          `json:"languages"`
	Status                  *string                  `json:"status"`
}

// ProfessionalExperience is one employment entry. Dates are kept as raw
// text; an unparseable date only voids that entry's duration.
type ProfessionalExperience struct {
	CompanyName         *string             `json:"companyName"`
	ExperienceType      *string             `json:"experienceType"`
	Role                *string             `json:"role"`
	IsCurrent           *bool               `json:"isCurrent"`
	StartDate           *string             `json:"startDate"`
	EndDate             *string             `json:"endDate"`
	ActivitiesPerformed []ActivityPerformed `json:"activitiesPerformed"`
}

type ActivityPerformed struct {
	Activity          *string  `json:"activity"`
	ProblemSolved     *string  `json:"problemSolved"`
	Technologies      []string `json:"technologies"`
	AppliedSoftSkills []string `json:"appliedSoftSkills"`
}

type AcademicFormation struct {
	Level       *string `json:"level"`
	CourseName  *string `json:"courseName"`
	Institution *string `json:"institution"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

type LanguageEntry struct {
	Language    *string `json:"language"`
	Proficiency *string `json:"proficiency"`
}

// HasUserID reports whether the record carries a non-blank userId.
func (r *ResumeRecord) HasUserID() bool {
	return r != nil && strings.TrimSpace(r.UserID) != ""
}

// Current reports whether the experience is flagged as ongoing.
func (e ProfessionalExperience) Current() bool {
	return e.IsCurrent != nil && *e.IsCurrent
}

// Value dereferences an optional string, returning "" for nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
