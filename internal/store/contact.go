package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/easyjob/apiserver/types"
)

const contactColumns = `id, address, phone, email, latitude, longitude, working_hours, additional_info, updated_at`

// ContactRepository handles persistence for the contact record.
type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func scanContact(row rowScanner) (types.Contact, error) {
	var contact types.Contact
	err := row.Scan(
		&contact.ID,
		&contact.Address,
		&contact.Phone,
		&contact.Email,
		&contact.Latitude,
		&contact.Longitude,
		&contact.WorkingHours,
		&contact.AdditionalInfo,
		&contact.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Contact{}, ErrNotFound
	}
	return contact, err
}

// First returns the row with the lowest id.
func (r *ContactRepository) First(ctx context.Context) (types.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY id LIMIT 1`
	return scanContact(r.db.QueryRowContext(ctx, query))
}

func (r *ContactRepository) Get(ctx context.Context, id int) (types.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	return scanContact(r.db.QueryRowContext(ctx, query, id))
}

func (r *ContactRepository) Create(ctx context.Context, contact types.Contact) (types.Contact, error) {
	contact.UpdatedAt = time.Now()

	const query = `
		INSERT INTO contacts (address, phone, email, latitude, longitude, working_hours, additional_info, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		contact.Address,
		contact.Phone,
		contact.Email,
		contact.Latitude,
		contact.Longitude,
		contact.WorkingHours,
		contact.AdditionalInfo,
		contact.UpdatedAt,
	).Scan(&contact.ID); err != nil {
		return types.Contact{}, translateError(err)
	}
	return contact, nil
}

func (r *ContactRepository) Update(ctx context.Context, contact types.Contact) (types.Contact, error) {
	contact.UpdatedAt = time.Now()

	const query = `
		UPDATE contacts
		SET address = $1,
			phone = $2,
			email = $3,
			latitude = $4,
			longitude = $5,
			working_hours = $6,
			additional_info = $7,
			updated_at = $8
		WHERE id = $9`
	result, err := r.db.ExecContext(
		ctx,
		query,
		contact.Address,
		contact.Phone,
		contact.Email,
		contact.Latitude,
		contact.Longitude,
		contact.WorkingHours,
		contact.AdditionalInfo,
		contact.UpdatedAt,
		contact.ID,
	)
	if err != nil {
		return types.Contact{}, translateError(err)
	}
	if err := checkAffected(result); err != nil {
		return types.Contact{}, err
	}
	return contact, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM contacts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}
