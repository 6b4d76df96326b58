package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/easyjob/apiserver/types"
)

// Limits for the popular and featured aggregates.
const (
	PopularCompaniesLimit  = 10
	FeaturedCompaniesLimit = 5
	FeaturedVacanciesLimit = 6
)

// CompanyRepository defines persistence operations for companies.
type CompanyRepository interface {
	List(ctx context.Context, filter types.CompanyFilter, page types.Page) ([]types.Company, int, error)
	Popular(ctx context.Context, limit int) ([]types.Company, error)
	Get(ctx context.Context, id int) (types.Company, error)
	Create(ctx context.Context, company types.Company) (types.Company, error)
	Update(ctx context.Context, company types.Company) (types.Company, error)
	Delete(ctx context.Context, id int) error
}

// CompanyInput carries writable company fields. Nil fields are left
// untouched on partial updates. Any owner submitted by the client is
// ignored.
type CompanyInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Website     *string `json:"website"`
	Location    *string `json:"location"`
	Logo        *Upload `json:"-"`
}

// CompanyService encapsulates company use-cases.
type CompanyService struct {
	repo    CompanyRepository
	uploads *Uploader
}

func NewCompanyService(repo CompanyRepository, uploads *Uploader) *CompanyService {
	return &CompanyService{repo: repo, uploads: uploads}
}

func (s *CompanyService) List(ctx context.Context, filter types.CompanyFilter, page types.Page) ([]types.Company, int, error) {
	return s.repo.List(ctx, filter, page)
}

func (s *CompanyService) Get(ctx context.Context, id int) (types.Company, error) {
	company, err := s.repo.Get(ctx, id)
	return company, wrap("company", err)
}

// Popular returns the companies with the most active vacancies.
func (s *CompanyService) Popular(ctx context.Context) ([]types.Company, error) {
	return s.repo.Popular(ctx, PopularCompaniesLimit)
}

// Create stores a company owned by actor.
func (s *CompanyService) Create(ctx context.Context, actor types.User, input CompanyInput) (types.Company, error) {
	company := types.Company{UserID: actor.ID}
	if err := applyCompanyInput(&company, input, false); err != nil {
		return types.Company{}, err
	}
	if input.Logo != nil {
		key, err := s.uploads.Save(ctx, "logo", CompanyLogos, input.Logo)
		if err != nil {
			return types.Company{}, err
		}
		company.Logo = &key
	}

	created, err := s.repo.Create(ctx, company)
	if err != nil {
		if company.Logo != nil {
			s.uploads.Remove(ctx, *company.Logo)
		}
		return types.Company{}, wrap("company", err)
	}
	return created, nil
}

func (s *CompanyService) Update(ctx context.Context, actor types.User, id int, input CompanyInput, partial bool) (types.Company, error) {
	company, err := s.Get(ctx, id)
	if err != nil {
		return types.Company{}, err
	}
	if err := requireOwner(actor, company); err != nil {
		return types.Company{}, err
	}
	if err := applyCompanyInput(&company, input, partial); err != nil {
		return types.Company{}, err
	}

	var previous string
	if input.Logo != nil {
		key, err := s.uploads.Save(ctx, "logo", CompanyLogos, input.Logo)
		if err != nil {
			return types.Company{}, err
		}
		if company.Logo != nil {
			previous = *company.Logo
		}
		company.Logo = &key
	}

	updated, err := s.repo.Update(ctx, company)
	if err != nil {
		if input.Logo != nil {
			s.uploads.Remove(ctx, *company.Logo)
		}
		return types.Company{}, wrap("company", err)
	}
	s.uploads.Remove(ctx, previous)
	return updated, nil
}

func (s *CompanyService) Delete(ctx context.Context, actor types.User, id int) error {
	company, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(actor, company); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrap("company", err)
	}
	if company.Logo != nil {
		s.uploads.Remove(ctx, *company.Logo)
	}
	return nil
}

func applyCompanyInput(company *types.Company, input CompanyInput, partial bool) error {
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
	setText("name", input.Name, &company.Name)
	setText("description", input.Description, &company.Description)
	setText("location", input.Location, &company.Location)
	errs.maxLength("name", company.Name, 100)
	errs.maxLength("location", company.Location, 100)

	if input.Website != nil {
		company.Website = blankToNil(input.Website)
		if company.Website != nil && !validWebsite(*company.Website) {
			errs.add("website", "Enter a valid URL.")
		}
	} else if !partial {
		company.Website = nil
	}
	return errs.err()
}

func validWebsite(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// owned is satisfied by records that belong to a single user.
type owned interface {
	GetUserID() int
}

func requireOwner(actor types.User, record owned) error {
	if actor.IsAdmin() || record.GetUserID() == actor.ID {
		return nil
	}
	return ErrPermissionDenied
}
