package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/easyjob/apiserver/types"
)

const companyColumns = `c.id, c.user_id, c.name, c.description, c.website, c.logo, c.location, c.created_at, c.updated_at`

// activeVacancyCount counts a company's active vacancies.
const activeVacancyCount = `(SELECT COUNT(1) FROM vacancies v WHERE v.company_id = c.id AND v.is_active)`

// CompanyRepository handles persistence for companies.
type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func scanCompany(row rowScanner, extra ...any) (types.Company, error) {
	var company types.Company
	dest := []any{
		&company.ID,
		&company.UserID,
		&company.Name,
		&company.Description,
		&company.Website,
		&company.Logo,
		&company.Location,
		&company.CreatedAt,
		&company.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return company, err
}

func (r *CompanyRepository) List(ctx context.Context, filter types.CompanyFilter, page types.Page) ([]types.Company, int, error) {
	var w whereBuilder
	w.search(filter.Search, "c.name", "c.description", "c.location")
	if filter.Location != nil {
		w.eq("c.location", *filter.Location)
	}

	countQuery := `SELECT COUNT(1) FROM companies c` + w.clause()
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT ` + companyColumns + ` FROM companies c` + w.clause() + ` ORDER BY c.id` + w.page(page.Offset, page.Limit)
	rows, err := r.db.QueryContext(ctx, listQuery, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	companies := make([]types.Company, 0, page.Limit)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

// Popular returns companies ordered by active vacancy count, most first.
// Ties keep id order.
func (r *CompanyRepository) Popular(ctx context.Context, limit int) ([]types.Company, error) {
	query := `
		SELECT ` + companyColumns + `, ` + activeVacancyCount + ` AS vacancy_count
		FROM companies c
		ORDER BY vacancy_count DESC, c.id
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]types.Company, 0, limit)
	for rows.Next() {
		var count int
		company, err := scanCompany(rows, &count)
		if err != nil {
			return nil, err
		}
		company.VacancyCount = &count
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *CompanyRepository) Get(ctx context.Context, id int) (types.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies c WHERE c.id = $1`
	company, err := scanCompany(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Company{}, ErrNotFound
		}
		return types.Company{}, err
	}
	return company, nil
}

func (r *CompanyRepository) Create(ctx context.Context, company types.Company) (types.Company, error) {
	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now

	const query = `
		INSERT INTO companies (user_id, name, description, website, logo, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		company.UserID,
		company.Name,
		company.Description,
		company.Website,
		company.Logo,
		company.Location,
		company.CreatedAt,
		company.UpdatedAt,
	).Scan(&company.ID); err != nil {
		return types.Company{}, translateError(err)
	}
	return company, nil
}

func (r *CompanyRepository) Update(ctx context.Context, company types.Company) (types.Company, error) {
	company.UpdatedAt = time.Now()

	const query = `
		UPDATE companies
		SET name = $1,
			description = $2,
			website = $3,
			logo = $4,
			location = $5,
			updated_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		company.Name,
		company.Description,
		company.Website,
		company.Logo,
		company.Location,
		company.UpdatedAt,
		company.ID,
	)
	if err != nil {
		return types.Company{}, translateError(err)
	}
	if err := checkAffected(result); err != nil {
		return types.Company{}, err
	}
	return company, nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM companies WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}
