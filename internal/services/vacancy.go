package services

import (
	"context"
	"errors"
	"strings"

	"github.com/easyjob/apiserver/internal/store"
	"github.com/easyjob/apiserver/types"
	"github.com/shopspring/decimal"
)

// VacancyRepository defines persistence operations for vacancies.
type VacancyRepository interface {
	List(ctx context.Context, filter types.VacancyFilter, page types.Page) ([]types.Vacancy, int, error)
	Featured(ctx context.Context, companyLimit, limit int) ([]types.Vacancy, error)
	Get(ctx context.Context, id int) (types.Vacancy, error)
	Create(ctx context.Context, vacancy types.Vacancy) (types.Vacancy, error)
	Update(ctx context.Context, vacancy types.Vacancy) (types.Vacancy, error)
	Delete(ctx context.Context, id int) error
}

// VacancyInput carries writable vacancy fields. Nil fields are left
// untouched on partial updates.
type VacancyInput struct {
	Company         *int                   `json:"company"`
	Category        NullableInt            `json:"category"`
	Skills          *[]int                 `json:"skills"`
	Title           *string                `json:"title"`
	Description     *string                `json:"description"`
	Requirements    *string                `json:"requirements"`
	ExperienceLevel *types.ExperienceLevel `json:"experience_level"`
	JobType         *types.JobType         `json:"job_type"`
	SalaryMin       *decimal.Decimal       `json:"salary_min"`
	SalaryMax       *decimal.Decimal       `json:"salary_max"`
	Location        *string                `json:"location"`
	IsActive        *bool                  `json:"is_active"`
}

// ApplyInput carries the body of a vacancy application. The resume may be
// sent as either "resume" or "resume_id".
type ApplyInput struct {
	Resume      NullableInt `json:"resume"`
	ResumeID    NullableInt `json:"resume_id"`
	CoverLetter string      `json:"cover_letter"`
}

// resume returns the submitted resume id, preferring "resume". Zero counts
// as missing.
func (in ApplyInput) resume() (int, bool) {
	for _, field := range []NullableInt{in.Resume, in.ResumeID} {
		if field.Value != nil && *field.Value != 0 {
			return *field.Value, true
		}
	}
	return 0, false
}

// VacancyRepos groups the repositories the vacancy service reads from.
type VacancyRepos struct {
	Vacancies    VacancyRepository
	Companies    CompanyRepository
	Categories   CategoryRepository
	Skills       SkillRepository
	Resumes      ResumeRepository
	Applications ApplicationRepository
}

// VacancyService encapsulates vacancy use-cases.
type VacancyService struct {
	repos       VacancyRepos
	events      *Events
	ownerWrites bool
}

// NewVacancyService constructs the service. With ownerWrites set, only the
// owner of a vacancy's company or an admin may write it.
func NewVacancyService(repos VacancyRepos, events *Events, ownerWrites bool) *VacancyService {
	return &VacancyService{repos: repos, events: events, ownerWrites: ownerWrites}
}

// OwnerWrites reports whether writes are limited to company owners.
func (s *VacancyService) OwnerWrites() bool {
	return s.ownerWrites
}

// List returns active vacancies matching filter, newest first.
func (s *VacancyService) List(ctx context.Context, filter types.VacancyFilter, page types.Page) ([]types.Vacancy, int, error) {
	active := true
	if filter.IsActive != nil && !*filter.IsActive {
		return []types.Vacancy{}, 0, nil
	}
	filter.IsActive = &active
	return s.repos.Vacancies.List(ctx, filter, page)
}

// Get returns a vacancy regardless of whether it is active.
func (s *VacancyService) Get(ctx context.Context, id int) (types.Vacancy, error) {
	vacancy, err := s.repos.Vacancies.Get(ctx, id)
	return vacancy, wrap("vacancy", err)
}

// Featured returns the newest active vacancies of the companies with the
// most active vacancies.
func (s *VacancyService) Featured(ctx context.Context) ([]types.Vacancy, error) {
	return s.repos.Vacancies.Featured(ctx, FeaturedCompaniesLimit, FeaturedVacanciesLimit)
}

func (s *VacancyService) Create(ctx context.Context, actor *types.User, input VacancyInput) (types.Vacancy, error) {
	vacancy := types.Vacancy{IsActive: true, Skills: []int{}}
	if err := s.apply(ctx, &vacancy, input, false); err != nil {
		return types.Vacancy{}, err
	}
	if err := s.authorize(ctx, actor, vacancy.CompanyID); err != nil {
		return types.Vacancy{}, err
	}
	created, err := s.repos.Vacancies.Create(ctx, vacancy)
	return created, wrap("vacancy", err)
}

func (s *VacancyService) Update(ctx context.Context, actor *types.User, id int, input VacancyInput, partial bool) (types.Vacancy, error) {
	vacancy, err := s.Get(ctx, id)
	if err != nil {
		return types.Vacancy{}, err
	}
	if err := s.authorize(ctx, actor, vacancy.CompanyID); err != nil {
		return types.Vacancy{}, err
	}
	previousCompany := vacancy.CompanyID
	if err := s.apply(ctx, &vacancy, input, partial); err != nil {
		return types.Vacancy{}, err
	}
	if vacancy.CompanyID != previousCompany {
		if err := s.authorize(ctx, actor, vacancy.CompanyID); err != nil {
			return types.Vacancy{}, err
		}
	}
	updated, err := s.repos.Vacancies.Update(ctx, vacancy)
	return updated, wrap("vacancy", err)
}

func (s *VacancyService) Delete(ctx context.Context, actor *types.User, id int) error {
	vacancy, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, vacancy.CompanyID); err != nil {
		return err
	}
	return wrap("vacancy", s.repos.Vacancies.Delete(ctx, id))
}

// Apply submits actor's resume and cover letter to a vacancy.
func (s *VacancyService) Apply(ctx context.Context, actor types.User, vacancyID int, input ApplyInput) (types.Application, error) {
	vacancy, err := s.Get(ctx, vacancyID)
	if err != nil {
		return types.Application{}, err
	}

	errs := fieldErrors{}
	resumeID, ok := input.resume()
	if !ok {
		errs.add("resume", "Both resume and cover letter are required.")
	}
	if strings.TrimSpace(input.CoverLetter) == "" {
		errs.add("cover_letter", "Both resume and cover letter are required.")
	}
	if err := errs.err(); err != nil {
		return types.Application{}, err
	}

	resume, err := s.repos.Resumes.GetForUser(ctx, resumeID, actor.ID)
	if err != nil {
		return types.Application{}, wrap("resume", err)
	}

	application, err := s.repos.Applications.Create(ctx, types.Application{
		UserID:      actor.ID,
		VacancyID:   vacancy.ID,
		ResumeID:    &resume.ID,
		CoverLetter: input.CoverLetter,
		Status:      types.StatusPending,
	})
	if err != nil {
		return types.Application{}, wrap("application", err)
	}
	s.events.application(ctx, EventApplicationCreated, application)
	return application, nil
}

func (s *VacancyService) authorize(ctx context.Context, actor *types.User, companyID int) error {
	if !s.ownerWrites {
		return nil
	}
	if actor == nil {
		return ErrPermissionDenied
	}
	if actor.IsAdmin() {
		return nil
	}
	company, err := s.repos.Companies.Get(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalid("company", "Invalid pk - object does not exist.")
		}
		return err
	}
	return requireOwner(*actor, company)
}

// apply merges input into vacancy and validates the result, including the
// salary range and referenced records.
func (s *VacancyService) apply(ctx context.Context, vacancy *types.Vacancy, input VacancyInput, partial bool) error {
	errs := fieldErrors{}
	setText := func(field string, value *string, dst *string) {
		if value == nil {
			if !partial {
				errs.add(field, msgRequired)
			}
			return
		}
		errs.require(field, *value)
		*dst = strings.TrimSpace(*value)
	}
	setText("title", input.Title, &vacancy.Title)
	setText("description", input.Description, &vacancy.Description)
	setText("requirements", input.Requirements, &vacancy.Requirements)
	setText("location", input.Location, &vacancy.Location)
	errs.maxLength("title", vacancy.Title, 100)
	errs.maxLength("location", vacancy.Location, 100)

	if input.Company != nil {
		vacancy.CompanyID = *input.Company
	} else if !partial {
		errs.add("company", msgRequired)
	}
	if input.Category.Set {
		vacancy.CategoryID = input.Category.Value
	} else if !partial {
		vacancy.CategoryID = nil
	}
	if input.Skills != nil {
		vacancy.Skills = dedupe(*input.Skills)
	} else if !partial {
		vacancy.Skills = []int{}
	}

	if input.ExperienceLevel != nil {
		vacancy.ExperienceLevel = *input.ExperienceLevel
		if !vacancy.ExperienceLevel.Valid() {
			errs.add("experience_level", `"`+string(vacancy.ExperienceLevel)+`" is not a valid choice.`)
		}
	} else if !partial {
		errs.add("experience_level", msgRequired)
	}
	if input.JobType != nil {
		vacancy.JobType = *input.JobType
		if !vacancy.JobType.Valid() {
			errs.add("job_type", `"`+string(vacancy.JobType)+`" is not a valid choice.`)
		}
	} else if !partial {
		errs.add("job_type", msgRequired)
	}

	if input.SalaryMin != nil {
		vacancy.SalaryMin = *input.SalaryMin
		checkDecimal(errs, "salary_min", vacancy.SalaryMin, 10, 2)
	} else if !partial {
		errs.add("salary_min", msgRequired)
	}
	if input.SalaryMax != nil {
		vacancy.SalaryMax = *input.SalaryMax
		checkDecimal(errs, "salary_max", vacancy.SalaryMax, 10, 2)
	} else if !partial {
		errs.add("salary_max", msgRequired)
	}
	if _, bad := errs["salary_min"]; !bad {
		if _, bad := errs["salary_max"]; !bad && vacancy.SalaryMin.GreaterThan(vacancy.SalaryMax) {
			errs.add("salary_min", "Minimum salary cannot be greater than maximum salary.")
		}
	}

	if input.IsActive != nil {
		vacancy.IsActive = *input.IsActive
	} else if !partial {
		vacancy.IsActive = true
	}

	if err := s.checkReferences(ctx, vacancy, errs); err != nil {
		return err
	}
	return errs.err()
}

func (s *VacancyService) checkReferences(ctx context.Context, vacancy *types.Vacancy, errs fieldErrors) error {
	if _, bad := errs["company"]; !bad {
		if _, err := s.repos.Companies.Get(ctx, vacancy.CompanyID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			errs.add("company", "Invalid pk - object does not exist.")
		}
	}
	if vacancy.CategoryID != nil {
		if _, err := s.repos.Categories.Get(ctx, *vacancy.CategoryID); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			errs.add("category", "Invalid pk - object does not exist.")
		}
	}
	return checkSkills(ctx, s.repos.Skills, vacancy.Skills, errs)
}

func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
