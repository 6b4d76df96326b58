package types

import "time"

// ApplicationStatus tracks an application through review.
type ApplicationStatus string

// Supported application statuses.
const (
	StatusPending     ApplicationStatus = "pending"
	StatusReviewing   ApplicationStatus = "reviewing"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusRejected    ApplicationStatus = "rejected"
	StatusAccepted    ApplicationStatus = "accepted"
)

// Valid reports whether s is a recognised status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusShortlisted, StatusRejected, StatusAccepted:
		return true
	}
	return false
}

// Application is a job seeker's submission against a vacancy.
type Application struct {
	// ID is the unique identifier of the application.
	ID int `json:"id" db:"id"`

	// UserID identifies the applicant.
	UserID int `json:"user" db:"user_id"`

	// VacancyID identifies the vacancy applied to.
	VacancyID int `json:"vacancy" db:"vacancy_id"`

	// ResumeID references the attached resume. It becomes nil when the
	// resume is deleted; the application survives.
	ResumeID *int `json:"resume" db:"resume_id"`

	CoverLetter string            `json:"cover_letter" db:"cover_letter"`
	Status      ApplicationStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	UserName     string  `json:"user_name" db:"-"`
	VacancyTitle string  `json:"vacancy_title" db:"-"`
	CompanyName  string  `json:"company_name" db:"-"`
	ResumeTitle  *string `json:"resume_title" db:"-"`

	// EmployerID is the owner of the vacancy's company. It drives
	// status-change authorisation and is not serialised.
	EmployerID int `json:"-" db:"-"`
}
