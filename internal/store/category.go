package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/easyjob/apiserver/types"
)

const categorySelect = `
		SELECT c.id, c.name, c.description, c.created_at,
			(SELECT COUNT(1) FROM vacancies v WHERE v.category_id = c.id AND v.is_active) AS vacancy_count
		FROM categories c`

// CategoryRepository handles persistence for categories. Reads always
// compute the active vacancy count.
type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func scanCategory(row rowScanner) (types.Category, error) {
	var category types.Category
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
		&category.VacancyCount,
	)
	return category, err
}

func (r *CategoryRepository) List(ctx context.Context, page types.Page) ([]types.Category, int, error) {
	const countQuery = `SELECT COUNT(1) FROM categories`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	var w whereBuilder
	query := categorySelect + ` ORDER BY c.id` + w.page(page.Offset, page.Limit)
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	categories := make([]types.Category, 0, page.Limit)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, 0, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *CategoryRepository) Get(ctx context.Context, id int) (types.Category, error) {
	category, err := scanCategory(r.db.QueryRowContext(ctx, categorySelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Category{}, ErrNotFound
		}
		return types.Category{}, err
	}
	return category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category types.Category) (types.Category, error) {
	category.CreatedAt = time.Now()
	category.VacancyCount = 0

	const query = `
		INSERT INTO categories (name, description, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, category.Name, category.Description, category.CreatedAt).Scan(&category.ID); err != nil {
		return types.Category{}, translateError(err)
	}
	return category, nil
}

// Update writes name and description and returns the refreshed row.
func (r *CategoryRepository) Update(ctx context.Context, category types.Category) (types.Category, error) {
	const query = `UPDATE categories SET name = $1, description = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, category.Name, category.Description, category.ID)
	if err != nil {
		return types.Category{}, translateError(err)
	}
	if err := checkAffected(result); err != nil {
		return types.Category{}, err
	}
	return r.Get(ctx, category.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM categories WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}
