package types

import "time"

// Resume is a job seeker's profile document plus metadata. It can be
// reused across many applications.
type Resume struct {
	ID     int `json:"id" db:"id"`
	UserID int `json:"user" db:"user_id"`

	Title string `json:"title" db:"title"`

	// File is the object storage key of the uploaded document.
	File string `json:"file" db:"file"`

	Skills     []int  `json:"skills" db:"-"`
	Experience string `json:"experience" db:"experience"`
	Education  string `json:"education" db:"education"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	SkillsList []Skill `json:"skills_list" db:"-"`
	UserName   string  `json:"user_name" db:"-"`
}
