package services

import (
	"context"
	"strings"

	"github.com/easyjob/apiserver/types"
)

// ResumeRepository defines persistence operations for resumes. Lookups
// are always scoped to the owning user.
type ResumeRepository interface {
	ListByUser(ctx context.Context, userID int, page types.Page) ([]types.Resume, int, error)
	GetForUser(ctx context.Context, id, userID int) (types.Resume, error)
	Create(ctx context.Context, resume types.Resume) (types.Resume, error)
	Update(ctx context.Context, resume types.Resume) (types.Resume, error)
	DeleteForUser(ctx context.Context, id, userID int) error
}

// ResumeInput carries writable resume fields. Any owner submitted by the
// client is ignored.
type ResumeInput struct {
	Title      *string `json:"title"`
	Experience *string `json:"experience"`
	Education  *string `json:"education"`
	Skills     *[]int  `json:"skills"`
	File       *Upload `json:"-"`
}

// ResumeService encapsulates resume use-cases.
type ResumeService struct {
	repo    ResumeRepository
	skills  SkillRepository
	uploads *Uploader
}

func NewResumeService(repo ResumeRepository, skills SkillRepository, uploads *Uploader) *ResumeService {
	return &ResumeService{repo: repo, skills: skills, uploads: uploads}
}

func (s *ResumeService) List(ctx context.Context, actor types.User, page types.Page) ([]types.Resume, int, error) {
	return s.repo.ListByUser(ctx, actor.ID, page)
}

func (s *ResumeService) Get(ctx context.Context, actor types.User, id int) (types.Resume, error) {
	resume, err := s.repo.GetForUser(ctx, id, actor.ID)
	return resume, wrap("resume", err)
}

func (s *ResumeService) Create(ctx context.Context, actor types.User, input ResumeInput) (types.Resume, error) {
	resume := types.Resume{UserID: actor.ID, Skills: []int{}}
	if err := s.apply(ctx, &resume, input, false); err != nil {
		return types.Resume{}, err
	}
	if input.File == nil {
		return types.Resume{}, invalid("file", "No file was submitted.")
	}

	key, err := s.uploads.Save(ctx, "file", ResumeFiles, input.File)
	if err != nil {
		return types.Resume{}, err
	}
	resume.File = key

	created, err := s.repo.Create(ctx, resume)
	if err != nil {
		s.uploads.Remove(ctx, key)
		return types.Resume{}, wrap("resume", err)
	}
	return created, nil
}

func (s *ResumeService) Update(ctx context.Context, actor types.User, id int, input ResumeInput, partial bool) (types.Resume, error) {
	resume, err := s.Get(ctx, actor, id)
	if err != nil {
		return types.Resume{}, err
	}
	if err := s.apply(ctx, &resume, input, partial); err != nil {
		return types.Resume{}, err
	}

	previous := ""
	if input.File != nil {
		key, err := s.uploads.Save(ctx, "file", ResumeFiles, input.File)
		if err != nil {
			return types.Resume{}, err
		}
		previous = resume.File
		resume.File = key
	}

	updated, err := s.repo.Update(ctx, resume)
	if err != nil {
		if input.File != nil {
			s.uploads.Remove(ctx, resume.File)
		}
		return types.Resume{}, wrap("resume", err)
	}
	s.uploads.Remove(ctx, previous)
	return updated, nil
}

func (s *ResumeService) Delete(ctx context.Context, actor types.User, id int) error {
	resume, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteForUser(ctx, id, actor.ID); err != nil {
		return wrap("resume", err)
	}
	s.uploads.Remove(ctx, resume.File)
	return nil
}

func (s *ResumeService) apply(ctx context.Context, resume *types.Resume, input ResumeInput, partial bool) error {
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
	setText("title", input.Title, &resume.Title)
	setText("experience", input.Experience, &resume.Experience)
	setText("education", input.Education, &resume.Education)
	errs.maxLength("title", resume.Title, 100)

	if input.Skills != nil {
		resume.Skills = dedupe(*input.Skills)
	} else if !partial {
		resume.Skills = []int{}
	}
	if err := checkSkills(ctx, s.skills, resume.Skills, errs); err != nil {
		return err
	}
	return errs.err()
}
