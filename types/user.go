package types

import "time"

// UserType distinguishes job seekers from employers.
type UserType string

// Supported user types.
const (
	UserTypeJobSeeker UserType = "job_seeker"
	UserTypeEmployer  UserType = "employer"
)

// Valid reports whether t is a recognised user type.
func (t UserType) Valid() bool {
	return t == UserTypeJobSeeker || t == UserTypeEmployer
}

// User represents an account in the system.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Email is the user's email address. It is unique and is the
	// identity used to obtain tokens.
	Email string `json:"email" db:"email"`

	// Username is an optional handle. When none is supplied the email
	// is used.
	Username string `json:"username" db:"username"`

	// FirstName is the user's given name.
	FirstName string `json:"first_name" db:"first_name"`

	// LastName is the user's family name.
	LastName string `json:"last_name" db:"last_name"`

	// UserType indicates whether the account belongs to a job seeker
	// or an employer.
	UserType UserType `json:"user_type" db:"user_type"`

	// PhoneNumber is an optional contact number.
	PhoneNumber *string `json:"phone_number" db:"phone_number"`

	// ProfileImage is the object storage key of the uploaded avatar.
	// API responses expose it as an absolute media URL.
	ProfileImage *string `json:"profile_image" db:"profile_image"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// IsStaff grants administrative access to other users' records.
	IsStaff bool `json:"-" db:"is_staff"`

	// IsSuperuser marks accounts created through the admin command.
	IsSuperuser bool `json:"-" db:"is_superuser"`

	// IsActive controls whether the user may obtain tokens.
	IsActive bool `json:"-" db:"is_active"`

	// DateJoined is the timestamp when the user account was created.
	DateJoined time.Time `json:"-" db:"date_joined"`
}

// FullName joins the first and last name the way they are shown
// next to resumes and applications.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// IsAdmin reports whether the user bypasses ownership checks.
func (u User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}
