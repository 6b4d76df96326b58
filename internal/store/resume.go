package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/easyjob/apiserver/types"
)

const resumeSelect = `
		SELECT r.id, r.user_id, r.title, r.file, r.experience, r.education, r.created_at, r.updated_at,
			u.first_name, u.last_name
		FROM resumes r
		JOIN users u ON u.id = r.user_id`

// ResumeRepository handles persistence for resumes. Every read and write
// is scoped to the owning user.
type ResumeRepository struct {
	db *sql.DB
}

func NewResumeRepository(db *sql.DB) *ResumeRepository {
	return &ResumeRepository{db: db}
}

func (r *ResumeRepository) ListByUser(ctx context.Context, userID int, page types.Page) ([]types.Resume, int, error) {
	const countQuery = `SELECT COUNT(1) FROM resumes WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	var w whereBuilder
	w.eq("r.user_id", userID)
	query := resumeSelect + w.clause() + ` ORDER BY r.id` + w.page(page.Offset, page.Limit)
	resumes, err := r.query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return resumes, total, nil
}

// GetForUser returns the resume only when it belongs to userID.
func (r *ResumeRepository) GetForUser(ctx context.Context, id, userID int) (types.Resume, error) {
	resumes, err := r.query(ctx, resumeSelect+` WHERE r.id = $1 AND r.user_id = $2`, id, userID)
	if err != nil {
		return types.Resume{}, err
	}
	if len(resumes) == 0 {
		return types.Resume{}, ErrNotFound
	}
	return resumes[0], nil
}

func (r *ResumeRepository) Create(ctx context.Context, resume types.Resume) (types.Resume, error) {
	now := time.Now()
	resume.CreatedAt = now
	resume.UpdatedAt = now

	const query = `
		INSERT INTO resumes (user_id, title, file, experience, education, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(
			ctx,
			query,
			resume.UserID,
			resume.Title,
			resume.File,
			resume.Experience,
			resume.Education,
			resume.CreatedAt,
			resume.UpdatedAt,
		).Scan(&resume.ID); err != nil {
			return translateError(err)
		}
		return resumeSkills.replace(ctx, tx, resume.ID, resume.Skills)
	})
	if err != nil {
		return types.Resume{}, err
	}
	return r.GetForUser(ctx, resume.ID, resume.UserID)
}

func (r *ResumeRepository) Update(ctx context.Context, resume types.Resume) (types.Resume, error) {
	resume.UpdatedAt = time.Now()

	const query = `
		UPDATE resumes
		SET title = $1,
			file = $2,
			experience = $3,
			education = $4,
			updated_at = $5
		WHERE id = $6 AND user_id = $7`
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(
			ctx,
			query,
			resume.Title,
			resume.File,
			resume.Experience,
			resume.Education,
			resume.UpdatedAt,
			resume.ID,
			resume.UserID,
		)
		if err != nil {
			return translateError(err)
		}
		if err := checkAffected(result); err != nil {
			return err
		}
		return resumeSkills.replace(ctx, tx, resume.ID, resume.Skills)
	})
	if err != nil {
		return types.Resume{}, err
	}
	return r.GetForUser(ctx, resume.ID, resume.UserID)
}

func (r *ResumeRepository) DeleteForUser(ctx context.Context, id, userID int) error {
	const query = `DELETE FROM resumes WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

func (r *ResumeRepository) query(ctx context.Context, query string, args ...any) ([]types.Resume, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resumes := []types.Resume{}
	var ids []int
	for rows.Next() {
		var resume types.Resume
		var owner types.User
		if err := rows.Scan(
			&resume.ID,
			&resume.UserID,
			&resume.Title,
			&resume.File,
			&resume.Experience,
			&resume.Education,
			&resume.CreatedAt,
			&resume.UpdatedAt,
			&owner.FirstName,
			&owner.LastName,
		); err != nil {
			return nil, err
		}
		resume.UserName = owner.FullName()
		resumes = append(resumes, resume)
		ids = append(ids, resume.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	skills, err := resumeSkills.load(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range resumes {
		resumes[i].SkillsList = skills[resumes[i].ID]
		if resumes[i].SkillsList == nil {
			resumes[i].SkillsList = []types.Skill{}
		}
		resumes[i].Skills = skillIDs(resumes[i].SkillsList)
	}
	return resumes, nil
}
