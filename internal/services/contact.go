package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/easyjob/apiserver/internal/store"
	"github.com/easyjob/apiserver/types"
	"github.com/shopspring/decimal"
)

// ContactRepository defines persistence operations for contact records.
type ContactRepository interface {
	First(ctx context.Context) (types.Contact, error)
	Get(ctx context.Context, id int) (types.Contact, error)
	Create(ctx context.Context, contact types.Contact) (types.Contact, error)
	Update(ctx context.Context, contact types.Contact) (types.Contact, error)
	Delete(ctx context.Context, id int) error
}

// ContactInput carries writable contact fields.
type ContactInput struct {
	Address        *string          `json:"address"`
	Phone          *string          `json:"phone"`
	Email          *string          `json:"email"`
	Latitude       *decimal.Decimal `json:"latitude"`
	Longitude      *decimal.Decimal `json:"longitude"`
	WorkingHours   *string          `json:"working_hours"`
	AdditionalInfo *string          `json:"additional_info"`
}

// ContactService exposes the organisation contact record as a singleton.
type ContactService struct {
	repo ContactRepository
}

func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// Get returns the contact record with the lowest id.
func (s *ContactService) Get(ctx context.Context) (types.Contact, error) {
	contact, err := s.repo.First(ctx)
	return contact, wrap("contact", err)
}

func (s *ContactService) GetByID(ctx context.Context, id int) (types.Contact, error) {
	contact, err := s.repo.Get(ctx, id)
	return contact, wrap("contact", err)
}

func (s *ContactService) Create(ctx context.Context, input ContactInput) (types.Contact, error) {
	var contact types.Contact
	if err := applyContactInput(&contact, input, false); err != nil {
		return types.Contact{}, err
	}
	created, err := s.repo.Create(ctx, contact)
	return created, wrap("contact", err)
}

func (s *ContactService) Update(ctx context.Context, id int, input ContactInput, partial bool) (types.Contact, error) {
	contact, err := s.GetByID(ctx, id)
	if err != nil {
		return types.Contact{}, err
	}
	if err := applyContactInput(&contact, input, partial); err != nil {
		return types.Contact{}, err
	}
	updated, err := s.repo.Update(ctx, contact)
	return updated, wrap("contact", err)
}

// Upsert replaces the singleton record, creating it when the table is
// empty.
func (s *ContactService) Upsert(ctx context.Context, input ContactInput) (types.Contact, error) {
	current, err := s.repo.First(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return s.Create(ctx, input)
	}
	if err != nil {
		return types.Contact{}, err
	}
	return s.Update(ctx, current.ID, input, false)
}

func (s *ContactService) Delete(ctx context.Context, id int) error {
	return wrap("contact", s.repo.Delete(ctx, id))
}

func applyContactInput(contact *types.Contact, input ContactInput, partial bool) error {
	errs := fieldErrors{}
	setText := func(field string, value *string, dst *string, limit int) {
		if value == nil {
			if !partial {
				errs.add(field, msgRequired)
			}
			return
		}
		errs.require(field, *value)
		*dst = strings.TrimSpace(*value)
		errs.maxLength(field, *dst, limit)
	}
	setText("address", input.Address, &contact.Address, 255)
	setText("phone", input.Phone, &contact.Phone, 50)
	setText("working_hours", input.WorkingHours, &contact.WorkingHours, 100)
	setText("email", input.Email, &contact.Email, 254)
	if input.Email != nil && contact.Email != "" {
		if addr, err := mail.ParseAddress(contact.Email); err != nil || addr.Address != contact.Email {
			errs.add("email", "Enter a valid email address.")
		}
	}

	setCoordinate := func(field string, value *decimal.Decimal, dst *decimal.Decimal) {
		if value == nil {
			if !partial {
				errs.add(field, msgRequired)
			}
			return
		}
		*dst = *value
		checkDecimal(errs, field, *value, 9, 6)
	}
	setCoordinate("latitude", input.Latitude, &contact.Latitude)
	setCoordinate("longitude", input.Longitude, &contact.Longitude)

	if input.AdditionalInfo != nil {
		contact.AdditionalInfo = blankToNil(input.AdditionalInfo)
	} else if !partial {
		contact.AdditionalInfo = nil
	}
	return errs.err()
}
