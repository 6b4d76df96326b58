package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/easyjob/apiserver/types"
	"github.com/lib/pq"
)

// SkillRepository handles persistence for skills.
type SkillRepository struct {
	db *sql.DB
}

func NewSkillRepository(db *sql.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

func (r *SkillRepository) List(ctx context.Context, filter types.SkillFilter, page types.Page) ([]types.Skill, int, error) {
	var w whereBuilder
	w.search(filter.Search, "name")

	countQuery := `SELECT COUNT(1) FROM skills` + w.clause()
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT id, name, created_at FROM skills` + w.clause() + ` ORDER BY id` + w.page(page.Offset, page.Limit)
	rows, err := r.db.QueryContext(ctx, listQuery, w.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	skills := make([]types.Skill, 0, page.Limit)
	for rows.Next() {
		var skill types.Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.CreatedAt); err != nil {
			return nil, 0, err
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return skills, total, nil
}

func (r *SkillRepository) Get(ctx context.Context, id int) (types.Skill, error) {
	const query = `SELECT id, name, created_at FROM skills WHERE id = $1`
	var skill types.Skill
	err := r.db.QueryRowContext(ctx, query, id).Scan(&skill.ID, &skill.Name, &skill.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Skill{}, ErrNotFound
		}
		return types.Skill{}, err
	}
	return skill, nil
}

// Missing returns the ids from the given set that have no skill row.
func (r *SkillRepository) Missing(ctx context.Context, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
		SELECT wanted.id
		FROM UNNEST($1::int[]) AS wanted(id)
		LEFT JOIN skills s ON s.id = wanted.id
		WHERE s.id IS NULL
		ORDER BY wanted.id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(int64s(ids)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missing []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		missing = append(missing, id)
	}
	return missing, rows.Err()
}

func (r *SkillRepository) Create(ctx context.Context, skill types.Skill) (types.Skill, error) {
	skill.CreatedAt = time.Now()

	const query = `INSERT INTO skills (name, created_at) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, skill.Name, skill.CreatedAt).Scan(&skill.ID); err != nil {
		return types.Skill{}, translateError(err)
	}
	return skill, nil
}

func (r *SkillRepository) Update(ctx context.Context, skill types.Skill) (types.Skill, error) {
	const query = `UPDATE skills SET name = $1 WHERE id = $2 RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, skill.Name, skill.ID).Scan(&skill.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Skill{}, ErrNotFound
		}
		return types.Skill{}, translateError(err)
	}
	return skill, nil
}

func (r *SkillRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM skills WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// skillLinks describes a many-to-many table between an owner and skills.
type skillLinks struct {
	table    string
	ownerCol string
}

var (
	vacancySkills = skillLinks{table: "vacancy_skills", ownerCol: "vacancy_id"}
	resumeSkills  = skillLinks{table: "resume_skills", ownerCol: "resume_id"}
)

// replace swaps the owner's skill set for ids inside the caller's transaction.
func (l skillLinks) replace(ctx context.Context, q querier, ownerID int, ids []int) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM `+l.table+` WHERE `+l.ownerCol+` = $1`, ownerID); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	query := `INSERT INTO ` + l.table + ` (` + l.ownerCol + `, skill_id)
		SELECT $1, ids.id FROM UNNEST($2::int[]) AS ids(id)
		ON CONFLICT DO NOTHING`
	if _, err := q.ExecContext(ctx, query, ownerID, pq.Array(int64s(ids))); err != nil {
		return translateError(err)
	}
	return nil
}

// load fetches skills for each owner id in one query.
func (l skillLinks) load(ctx context.Context, q querier, ownerIDs []int) (map[int][]types.Skill, error) {
	result := make(map[int][]types.Skill, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT link.` + l.ownerCol + `, s.id, s.name, s.created_at
		FROM ` + l.table + ` link
		JOIN skills s ON s.id = link.skill_id
		WHERE link.` + l.ownerCol + ` = ANY($1)
		ORDER BY s.id`
	rows, err := q.QueryContext(ctx, query, pq.Array(int64s(ownerIDs)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ownerID int
		var skill types.Skill
		if err := rows.Scan(&ownerID, &skill.ID, &skill.Name, &skill.CreatedAt); err != nil {
			return nil, err
		}
		result[ownerID] = append(result[ownerID], skill)
	}
	return result, rows.Err()
}

func skillIDs(skills []types.Skill) []int {
	ids := make([]int, 0, len(skills))
	for _, skill := range skills {
		ids = append(ids, skill.ID)
	}
	return ids
}

func int64s(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
