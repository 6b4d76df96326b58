package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/easyjob/apiserver/types"
)

const vacancySelect = `
		SELECT v.id, v.company_id, v.category_id, v.title, v.description, v.requirements,
			v.experience_level, v.job_type, v.salary_min, v.salary_max, v.location, v.is_active,
			v.created_at, v.updated_at, co.name, ca.name
		FROM vacancies v
		JOIN companies co ON co.id = v.company_id
		LEFT JOIN categories ca ON ca.id = v.category_id`

const vacancyOrder = ` ORDER BY v.created_at DESC, v.id DESC`

// VacancyRepository handles persistence for vacancies and their skills.
type VacancyRepository struct {
	db *sql.DB
}

func NewVacancyRepository(db *sql.DB) *VacancyRepository {
	return &VacancyRepository{db: db}
}

func scanVacancy(row rowScanner) (types.Vacancy, error) {
	var vacancy types.Vacancy
	err := row.Scan(
		&vacancy.ID,
		&vacancy.CompanyID,
		&vacancy.CategoryID,
		&vacancy.Title,
		&vacancy.Description,
		&vacancy.Requirements,
		&vacancy.ExperienceLevel,
		&vacancy.JobType,
		&vacancy.SalaryMin,
		&vacancy.SalaryMax,
		&vacancy.Location,
		&vacancy.IsActive,
		&vacancy.CreatedAt,
		&vacancy.UpdatedAt,
		&vacancy.CompanyName,
		&vacancy.CategoryName,
	)
	return vacancy, err
}

func (r *VacancyRepository) List(ctx context.Context, filter types.VacancyFilter, page types.Page) ([]types.Vacancy, int, error) {
	var w whereBuilder
	w.search(filter.Search, "v.title", "v.description", "co.name", "v.location")
	if filter.CategoryID != nil {
		w.eq("v.category_id", *filter.CategoryID)
	}
	if filter.CompanyID != nil {
		w.eq("v.company_id", *filter.CompanyID)
	}
	if filter.ExperienceLevel != nil {
		w.eq("v.experience_level", string(*filter.ExperienceLevel))
	}
	if filter.JobType != nil {
		w.eq("v.job_type", string(*filter.JobType))
	}
	if filter.IsActive != nil {
		w.eq("v.is_active", *filter.IsActive)
	}

	countQuery := `
		SELECT COUNT(1)
		FROM vacancies v
		JOIN companies co ON co.id = v.company_id` + w.clause()
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := vacancySelect + w.clause() + vacancyOrder + w.page(page.Offset, page.Limit)
	vacancies, err := r.query(ctx, listQuery, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return vacancies, total, nil
}

// Featured returns up to limit active vacancies, newest first, drawn from
// the companyLimit companies with the most active vacancies.
func (r *VacancyRepository) Featured(ctx context.Context, companyLimit, limit int) ([]types.Vacancy, error) {
	query := `
		WITH top_companies AS (
			SELECT c.id
			FROM companies c
			ORDER BY ` + activeVacancyCount + ` DESC, c.id
			LIMIT $1
		)` + vacancySelect + `
		WHERE v.is_active AND v.company_id IN (SELECT id FROM top_companies)` + vacancyOrder + `
		LIMIT $2`
	return r.query(ctx, query, companyLimit, limit)
}

func (r *VacancyRepository) Get(ctx context.Context, id int) (types.Vacancy, error) {
	vacancies, err := r.query(ctx, vacancySelect+` WHERE v.id = $1`, id)
	if err != nil {
		return types.Vacancy{}, err
	}
	if len(vacancies) == 0 {
		return types.Vacancy{}, ErrNotFound
	}
	return vacancies[0], nil
}

func (r *VacancyRepository) Create(ctx context.Context, vacancy types.Vacancy) (types.Vacancy, error) {
	now := time.Now()
	vacancy.CreatedAt = now
	vacancy.UpdatedAt = now

	const query = `
		INSERT INTO vacancies (company_id, category_id, title, description, requirements,
			experience_level, job_type, salary_min, salary_max, location, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(
			ctx,
			query,
			vacancy.CompanyID,
			vacancy.CategoryID,
			vacancy.Title,
			vacancy.Description,
			vacancy.Requirements,
			vacancy.ExperienceLevel,
			vacancy.JobType,
			vacancy.SalaryMin,
			vacancy.SalaryMax,
			vacancy.Location,
			vacancy.IsActive,
			vacancy.CreatedAt,
			vacancy.UpdatedAt,
		).Scan(&vacancy.ID); err != nil {
			return translateError(err)
		}
		return vacancySkills.replace(ctx, tx, vacancy.ID, vacancy.Skills)
	})
	if err != nil {
		return types.Vacancy{}, err
	}
	return r.Get(ctx, vacancy.ID)
}

func (r *VacancyRepository) Update(ctx context.Context, vacancy types.Vacancy) (types.Vacancy, error) {
	vacancy.UpdatedAt = time.Now()

	const query = `
		UPDATE vacancies
		SET company_id = $1,
			category_id = $2,
			title = $3,
			description = $4,
			requirements = $5,
			experience_level = $6,
			job_type = $7,
			salary_min = $8,
			salary_max = $9,
			location = $10,
			is_active = $11,
			updated_at = $12
		WHERE id = $13`
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(
			ctx,
			query,
			vacancy.CompanyID,
			vacancy.CategoryID,
			vacancy.Title,
			vacancy.Description,
			vacancy.Requirements,
			vacancy.ExperienceLevel,
			vacancy.JobType,
			vacancy.SalaryMin,
			vacancy.SalaryMax,
			vacancy.Location,
			vacancy.IsActive,
			vacancy.UpdatedAt,
			vacancy.ID,
		)
		if err != nil {
			return translateError(err)
		}
		if err := checkAffected(result); err != nil {
			return err
		}
		return vacancySkills.replace(ctx, tx, vacancy.ID, vacancy.Skills)
	})
	if err != nil {
		return types.Vacancy{}, err
	}
	return r.Get(ctx, vacancy.ID)
}

func (r *VacancyRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM vacancies WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (r *VacancyRepository) query(ctx context.Context, query string, args ...any) ([]types.Vacancy, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vacancies []types.Vacancy
	var ids []int
	for rows.Next() {
		vacancy, err := scanVacancy(rows)
		if err != nil {
			return nil, err
		}
		vacancies = append(vacancies, vacancy)
		ids = append(ids, vacancy.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	skills, err := vacancySkills.load(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range vacancies {
		vacancies[i].SkillsList = skills[vacancies[i].ID]
		if vacancies[i].SkillsList == nil {
			vacancies[i].SkillsList = []types.Skill{}
		}
		vacancies[i].Skills = skillIDs(vacancies[i].SkillsList)
	}
	if vacancies == nil {
		vacancies = []types.Vacancy{}
	}
	return vacancies, nil
}
