package store

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ConstraintError reports a write rejected by a database constraint.
// Field names the request field the constraint guards.
type ConstraintError struct {
	Constraint string
	Field      string
	Kind       string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s constraint %s violated on %s", e.Kind, e.Constraint, e.Field)
}

// Constraint kinds.
const (
	KindUnique     = "unique"
	KindForeignKey = "foreign_key"
	KindCheck      = "check"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

var constraintFields = map[string]string{
	"users_email_key":                  "email",
	"users_username_key":               "username",
	"companies_user_id_fkey":           "user",
	"vacancies_company_id_fkey":        "company",
	"vacancies_category_id_fkey":       "category",
	"vacancies_salary_range":           "salary_min",
	"vacancy_skills_skill_id_fkey":     "skills",
	"resume_skills_skill_id_fkey":      "skills",
	"applications_vacancy_id_fkey":     "vacancy",
	"applications_resume_id_fkey":      "resume",
	"applications_status_check":        "status",
	"vacancies_experience_level_check": "experience_level",
	"vacancies_job_type_check":         "job_type",
	"users_user_type_check":            "user_type",
}

// translateError converts driver errors into store errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	var kind string
	switch string(pqErr.Code) {
	case pqUniqueViolation:
		kind = KindUnique
	case pqForeignKeyViolation:
		kind = KindForeignKey
	case pqCheckViolation:
		kind = KindCheck
	default:
		return err
	}

	field, ok := constraintFields[pqErr.Constraint]
	if !ok {
		field = pqErr.Column
	}
	if field == "" {
		field = "non_field_errors"
	}
	return &ConstraintError{Constraint: pqErr.Constraint, Field: field, Kind: kind}
}
