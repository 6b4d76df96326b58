package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExperienceLevel is the seniority a vacancy is aimed at.
type ExperienceLevel string

// Supported experience levels.
const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceJunior ExperienceLevel = "junior"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
	ExperienceLead   ExperienceLevel = "lead"
)

// Valid reports whether l is a recognised experience level.
func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceEntry, ExperienceJunior, ExperienceMid, ExperienceSenior, ExperienceLead:
		return true
	}
	return false
}

// JobType is the employment arrangement of a vacancy.
type JobType string

// Supported job types.
const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// Valid reports whether j is a recognised job type.
func (j JobType) Valid() bool {
	switch j {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// Vacancy represents a job opening posted by a company.
type Vacancy struct {
	// ID is the unique identifier of the vacancy.
	ID int `json:"id" db:"id"`

	// CompanyID identifies the company that posted the vacancy.
	CompanyID int `json:"company" db:"company_id"`

	// CategoryID optionally classifies the vacancy. It becomes nil when
	// the category is deleted.
	CategoryID *int `json:"category" db:"category_id"`

	// Skills holds the ids of the skills required by the vacancy.
	Skills []int `json:"skills" db:"-"`

	Title           string          `json:"title" db:"title"`
	Description     string          `json:"description" db:"description"`
	Requirements    string          `json:"requirements" db:"requirements"`
	ExperienceLevel ExperienceLevel `json:"experience_level" db:"experience_level"`
	JobType         JobType         `json:"job_type" db:"job_type"`

	// SalaryMin and SalaryMax bound the offered salary. SalaryMin never
	// exceeds SalaryMax.
	SalaryMin decimal.Decimal `json:"salary_min" db:"salary_min"`
	SalaryMax decimal.Decimal `json:"salary_max" db:"salary_max"`

	Location string `json:"location" db:"location"`

	// IsActive controls whether the vacancy appears in listings.
	IsActive bool `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// CompanyName, CategoryName and SkillsList are read-only projections
	// joined in when the vacancy is loaded.
	CompanyName  string  `json:"company_name" db:"-"`
	CategoryName *string `json:"category_name" db:"-"`
	SkillsList   []Skill `json:"skills_list" db:"-"`
}
