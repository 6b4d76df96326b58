package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/easyjob/apiserver/types"
)

const applicationFrom = `
		FROM applications a
		JOIN users u ON u.id = a.user_id
		JOIN vacancies v ON v.id = a.vacancy_id
		JOIN companies co ON co.id = v.company_id
		LEFT JOIN resumes r ON r.id = a.resume_id`

const applicationSelect = `
		SELECT a.id, a.user_id, a.vacancy_id, a.resume_id, a.cover_letter, a.status, a.created_at, a.updated_at,
			u.first_name, u.last_name, v.title, co.name, r.title, co.user_id` + applicationFrom

// ApplicationRepository handles persistence for applications. Reads and
// scoped writes take an ApplicationScope so callers only reach rows they
// are allowed to see.
type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func scanApplication(row rowScanner) (types.Application, error) {
	var application types.Application
	var applicant types.User
	err := row.Scan(
		&application.ID,
		&application.UserID,
		&application.VacancyID,
		&application.ResumeID,
		&application.CoverLetter,
		&application.Status,
		&application.CreatedAt,
		&application.UpdatedAt,
		&applicant.FirstName,
		&applicant.LastName,
		&application.VacancyTitle,
		&application.CompanyName,
		&application.ResumeTitle,
		&application.EmployerID,
	)
	application.UserName = applicant.FullName()
	return application, err
}

func scopeWhere(w *whereBuilder, scope types.ApplicationScope) {
	if scope.EmployerID != 0 {
		w.eq("co.user_id", scope.EmployerID)
		return
	}
	w.eq("a.user_id", scope.ApplicantID)
}

func (r *ApplicationRepository) List(ctx context.Context, scope types.ApplicationScope, page types.Page) ([]types.Application, int, error) {
	var w whereBuilder
	scopeWhere(&w, scope)

	countQuery := `SELECT COUNT(1)` + applicationFrom + w.clause()
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := applicationSelect + w.clause() + ` ORDER BY a.created_at DESC, a.id DESC` + w.page(page.Offset, page.Limit)
	rows, err := r.db.QueryContext(ctx, listQuery, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	applications := make([]types.Application, 0, page.Limit)
	for rows.Next() {
		application, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		applications = append(applications, application)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}

// GetInScope returns the application only when it is visible in scope.
func (r *ApplicationRepository) GetInScope(ctx context.Context, id int, scope types.ApplicationScope) (types.Application, error) {
	var w whereBuilder
	w.eq("a.id", id)
	scopeWhere(&w, scope)
	return r.get(ctx, applicationSelect+w.clause(), w.args...)
}

func (r *ApplicationRepository) get(ctx context.Context, query string, args ...any) (types.Application, error) {
	application, err := scanApplication(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Application{}, ErrNotFound
		}
		return types.Application{}, err
	}
	return application, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, application types.Application) (types.Application, error) {
	now := time.Now()
	application.CreatedAt = now
	application.UpdatedAt = now
	if application.Status == "" {
		application.Status = types.StatusPending
	}

	const query = `
		INSERT INTO applications (user_id, vacancy_id, resume_id, cover_letter, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		application.UserID,
		application.VacancyID,
		application.ResumeID,
		application.CoverLetter,
		application.Status,
		application.CreatedAt,
		application.UpdatedAt,
	).Scan(&application.ID); err != nil {
		return types.Application{}, translateError(err)
	}
	return r.get(ctx, applicationSelect+` WHERE a.id = $1`, application.ID)
}

// Update writes the applicant-editable fields of an application that is
// visible in scope.
func (r *ApplicationRepository) Update(ctx context.Context, application types.Application, scope types.ApplicationScope) (types.Application, error) {
	if _, err := r.GetInScope(ctx, application.ID, scope); err != nil {
		return types.Application{}, err
	}

	const query = `
		UPDATE applications
		SET resume_id = $1,
			cover_letter = $2,
			updated_at = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, application.ResumeID, application.CoverLetter, time.Now(), application.ID)
	if err != nil {
		return types.Application{}, translateError(err)
	}
	if err := checkAffected(result); err != nil {
		return types.Application{}, err
	}
	return r.GetInScope(ctx, application.ID, scope)
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int, status types.ApplicationStatus) (types.Application, error) {
	const query = `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return types.Application{}, translateError(err)
	}
	if err := checkAffected(result); err != nil {
		return types.Application{}, err
	}
	return r.get(ctx, applicationSelect+` WHERE a.id = $1`, id)
}

// DeleteInScope removes the application when it is visible in scope.
func (r *ApplicationRepository) DeleteInScope(ctx context.Context, id int, scope types.ApplicationScope) error {
	var w whereBuilder
	w.eq("a.id", id)
	scopeWhere(&w, scope)
	query := `
		DELETE FROM applications
		WHERE id IN (SELECT a.id` + applicationFrom + w.clause() + `)`
	result, err := r.db.ExecContext(ctx, query, w.args...)
	if err != nil {
		return err
	}
	return checkAffected(result)
}
