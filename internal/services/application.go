package services

import (
	"context"
	"errors"

	"github.com/easyjob/apiserver/internal/store"
	"github.com/easyjob/apiserver/types"
)

// ApplicationRepository defines persistence operations for applications.
type ApplicationRepository interface {
	List(ctx context.Context, scope types.ApplicationScope, page types.Page) ([]types.Application, int, error)
	GetInScope(ctx context.Context, id int, scope types.ApplicationScope) (types.Application, error)
	Create(ctx context.Context, application types.Application) (types.Application, error)
	Update(ctx context.Context, application types.Application, scope types.ApplicationScope) (types.Application, error)
	UpdateStatus(ctx context.Context, id int, status types.ApplicationStatus) (types.Application, error)
	DeleteInScope(ctx context.Context, id int, scope types.ApplicationScope) error
}

// ApplicationInput carries writable application fields. Status is only
// changed through UpdateStatus.
type ApplicationInput struct {
	Vacancy     *int        `json:"vacancy"`
	Resume      NullableInt `json:"resume"`
	CoverLetter *string     `json:"cover_letter"`
}

// ApplicationService encapsulates application use-cases.
type ApplicationService struct {
	repo      ApplicationRepository
	vacancies VacancyRepository
	resumes   ResumeRepository
	events    *Events
}

func NewApplicationService(repo ApplicationRepository, vacancies VacancyRepository, resumes ResumeRepository, events *Events) *ApplicationService {
	return &ApplicationService{repo: repo, vacancies: vacancies, resumes: resumes, events: events}
}

// ScopeFor returns the applications visible to actor: employers see
// applications to their companies' vacancies, everyone else sees their own.
func ScopeFor(actor types.User) types.ApplicationScope {
	if actor.UserType == types.UserTypeEmployer {
		return types.ApplicationScope{EmployerID: actor.ID}
	}
	return types.ApplicationScope{ApplicantID: actor.ID}
}

func (s *ApplicationService) List(ctx context.Context, actor types.User, page types.Page) ([]types.Application, int, error) {
	return s.repo.List(ctx, ScopeFor(actor), page)
}

func (s *ApplicationService) Get(ctx context.Context, actor types.User, id int) (types.Application, error) {
	application, err := s.repo.GetInScope(ctx, id, ScopeFor(actor))
	return application, wrap("application", err)
}

// Create submits an application on behalf of actor.
func (s *ApplicationService) Create(ctx context.Context, actor types.User, input ApplicationInput) (types.Application, error) {
	application := types.Application{UserID: actor.ID, Status: types.StatusPending}

	errs := fieldErrors{}
	if input.Vacancy == nil {
		errs.add("vacancy", msgRequired)
	} else if _, err := s.vacancies.Get(ctx, *input.Vacancy); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return types.Application{}, err
		}
		errs.add("vacancy", "Invalid pk - object does not exist.")
	} else {
		application.VacancyID = *input.Vacancy
	}
	if input.CoverLetter == nil {
		errs.add("cover_letter", msgRequired)
	} else {
		errs.require("cover_letter", *input.CoverLetter)
		application.CoverLetter = *input.CoverLetter
	}
	if err := s.setResume(ctx, &application, input.Resume, errs); err != nil {
		return types.Application{}, err
	}
	if err := errs.err(); err != nil {
		return types.Application{}, err
	}

	created, err := s.repo.Create(ctx, application)
	if err != nil {
		return types.Application{}, wrap("application", err)
	}
	s.events.application(ctx, EventApplicationCreated, created)
	return created, nil
}

// Update changes the cover letter and resume of an application in the
// caller's scope.
func (s *ApplicationService) Update(ctx context.Context, actor types.User, id int, input ApplicationInput, partial bool) (types.Application, error) {
	scope := ScopeFor(actor)
	application, err := s.repo.GetInScope(ctx, id, scope)
	if err != nil {
		return types.Application{}, wrap("application", err)
	}

	errs := fieldErrors{}
	if input.Vacancy != nil && *input.Vacancy != application.VacancyID {
		errs.add("vacancy", "The vacancy of an application cannot be changed.")
	}
	if input.CoverLetter != nil {
		errs.require("cover_letter", *input.CoverLetter)
		application.CoverLetter = *input.CoverLetter
	} else if !partial {
		errs.add("cover_letter", msgRequired)
	}
	if input.Resume.Set || !partial {
		if err := s.setResume(ctx, &application, input.Resume, errs); err != nil {
			return types.Application{}, err
		}
	}
	if err := errs.err(); err != nil {
		return types.Application{}, err
	}

	updated, err := s.repo.Update(ctx, application, scope)
	return updated, wrap("application", err)
}

// UpdateStatus moves an application to status. Only the employer owning
// the vacancy's company may do so.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor types.User, id int, status types.ApplicationStatus) (types.Application, error) {
	if status == "" {
		return types.Application{}, invalid("status", "Status is required.")
	}
	if !status.Valid() {
		return types.Application{}, invalid("status", "Invalid status.")
	}

	application, err := s.repo.GetInScope(ctx, id, ScopeFor(actor))
	if err != nil {
		return types.Application{}, wrap("application", err)
	}
	if actor.UserType != types.UserTypeEmployer || application.EmployerID != actor.ID {
		return types.Application{}, ErrPermissionDenied
	}

	updated, err := s.repo.UpdateStatus(ctx, application.ID, status)
	if err != nil {
		return types.Application{}, wrap("application", err)
	}
	s.events.application(ctx, EventApplicationStatusChanged, updated)
	return updated, nil
}

func (s *ApplicationService) Delete(ctx context.Context, actor types.User, id int) error {
	return wrap("application", s.repo.DeleteInScope(ctx, id, ScopeFor(actor)))
}

// setResume attaches the requested resume, which must belong to the
// applicant.
func (s *ApplicationService) setResume(ctx context.Context, application *types.Application, resume NullableInt, errs fieldErrors) error {
	if resume.Value == nil {
		application.ResumeID = nil
		return nil
	}
	if _, err := s.resumes.GetForUser(ctx, *resume.Value, application.UserID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		errs.add("resume", "Invalid pk - object does not exist.")
		return nil
	}
	id := *resume.Value
	application.ResumeID = &id
	return nil
}
