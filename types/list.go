package types

// Page selects a window of a list result.
type Page struct {
	Offset int
	Limit  int
}

// CompanyFilter narrows company listings.
type CompanyFilter struct {
	Search   string
	Location *string
}

// SkillFilter narrows skill listings.
type SkillFilter struct {
	Search string
}

// VacancyFilter narrows vacancy listings. Nil fields are not applied.
type VacancyFilter struct {
	Search          string
	CategoryID      *int
	CompanyID       *int
	ExperienceLevel *ExperienceLevel
	JobType         *JobType
	IsActive        *bool
}

// ApplicationScope restricts the applications visible to a caller.
// Exactly one of EmployerID or ApplicantID is set.
type ApplicationScope struct {
	EmployerID  int
	ApplicantID int
}
