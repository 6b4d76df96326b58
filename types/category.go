package types

import "time"

// Category groups vacancies by field of work.
type Category struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// VacancyCount is the number of active vacancies referencing the
	// category at query time. It is never stored.
	VacancyCount int `json:"vacancy_count" db:"-"`
}

// Skill is a tag shared by vacancies and resumes.
type Skill struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
