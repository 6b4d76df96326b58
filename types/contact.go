package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contact holds the organisation-wide contact information. The table is
// treated as a singleton.
type Contact struct {
	ID             int             `json:"id" db:"id"`
	Address        string          `json:"address" db:"address"`
	Phone          string          `json:"phone" db:"phone"`
	Email          string          `json:"email" db:"email"`
	Latitude       decimal.Decimal `json:"latitude" db:"latitude"`
	Longitude      decimal.Decimal `json:"longitude" db:"longitude"`
	WorkingHours   string          `json:"working_hours" db:"working_hours"`
	AdditionalInfo *string         `json:"additional_info" db:"additional_info"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}
