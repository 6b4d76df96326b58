package types

import "time"

// Company is an employer organisation owned by exactly one user.
type Company struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Website     *string   `json:"website" db:"website"`
	Logo        *string   `json:"logo" db:"logo"`
	Location    string    `json:"location" db:"location"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// VacancyCount is only populated by the popular companies query.
	VacancyCount *int `json:"vacancy_count,omitempty" db:"-"`
}

// GetUserID returns the owning user.
func (c Company) GetUserID() int {
	return c.UserID
}
