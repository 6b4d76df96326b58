package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/easyjob/apiserver/types"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context, page types.Page) ([]types.Category, int, error)
	Get(ctx context.Context, id int) (types.Category, error)
	Create(ctx context.Context, category types.Category) (types.Category, error)
	Update(ctx context.Context, category types.Category) (types.Category, error)
	Delete(ctx context.Context, id int) error
}

// CategoryInput carries writable category fields.
type CategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CategoryService encapsulates category use-cases.
type CategoryService struct {
	repo CategoryRepository
}

func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, page types.Page) ([]types.Category, int, error) {
	return s.repo.List(ctx, page)
}

func (s *CategoryService) Get(ctx context.Context, id int) (types.Category, error) {
	category, err := s.repo.Get(ctx, id)
	return category, wrap("category", err)
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (types.Category, error) {
	var category types.Category
	if err := applyCategoryInput(&category, input, false); err != nil {
		return types.Category{}, err
	}
	created, err := s.repo.Create(ctx, category)
	return created, wrap("category", err)
}

func (s *CategoryService) Update(ctx context.Context, id int, input CategoryInput, partial bool) (types.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return types.Category{}, err
	}
	if err := applyCategoryInput(&category, input, partial); err != nil {
		return types.Category{}, err
	}
	updated, err := s.repo.Update(ctx, category)
	return updated, wrap("category", err)
}

func (s *CategoryService) Delete(ctx context.Context, id int) error {
	return wrap("category", s.repo.Delete(ctx, id))
}

func applyCategoryInput(category *types.Category, input CategoryInput, partial bool) error {
	errs := fieldErrors{}
	if input.Name != nil {
		errs.require("name", *input.Name)
		category.Name = strings.TrimSpace(*input.Name)
		errs.maxLength("name", category.Name, 50)
	} else if !partial {
		errs.add("name", msgRequired)
	}
	if input.Description != nil {
		category.Description = blankToNil(input.Description)
	} else if !partial {
		category.Description = nil
	}
	return errs.err()
}

// SkillRepository defines persistence operations for skills.
type SkillRepository interface {
	List(ctx context.Context, filter types.SkillFilter, page types.Page) ([]types.Skill, int, error)
	Get(ctx context.Context, id int) (types.Skill, error)
	Missing(ctx context.Context, ids []int) ([]int, error)
	Create(ctx context.Context, skill types.Skill) (types.Skill, error)
	Update(ctx context.Context, skill types.Skill) (types.Skill, error)
	Delete(ctx context.Context, id int) error
}

// SkillInput carries writable skill fields.
type SkillInput struct {
	Name *string `json:"name"`
}

// SkillService encapsulates skill use-cases.
type SkillService struct {
	repo SkillRepository
}

func NewSkillService(repo SkillRepository) *SkillService {
	return &SkillService{repo: repo}
}

func (s *SkillService) List(ctx context.Context, filter types.SkillFilter, page types.Page) ([]types.Skill, int, error) {
	return s.repo.List(ctx, filter, page)
}

func (s *SkillService) Get(ctx context.Context, id int) (types.Skill, error) {
	skill, err := s.repo.Get(ctx, id)
	return skill, wrap("skill", err)
}

func (s *SkillService) Create(ctx context.Context, input SkillInput) (types.Skill, error) {
	if input.Name == nil {
		return types.Skill{}, invalid("name", msgRequired)
	}
	name, err := skillName(*input.Name)
	if err != nil {
		return types.Skill{}, err
	}
	created, err := s.repo.Create(ctx, types.Skill{Name: name})
	return created, wrap("skill", err)
}

func (s *SkillService) Update(ctx context.Context, id int, input SkillInput, partial bool) (types.Skill, error) {
	skill, err := s.Get(ctx, id)
	if err != nil {
		return types.Skill{}, err
	}
	if input.Name == nil {
		if !partial {
			return types.Skill{}, invalid("name", msgRequired)
		}
		return skill, nil
	}
	if skill.Name, err = skillName(*input.Name); err != nil {
		return types.Skill{}, err
	}
	updated, err := s.repo.Update(ctx, skill)
	return updated, wrap("skill", err)
}

func (s *SkillService) Delete(ctx context.Context, id int) error {
	return wrap("skill", s.repo.Delete(ctx, id))
}

func skillName(raw string) (string, error) {
	errs := fieldErrors{}
	name := strings.TrimSpace(raw)
	errs.require("name", name)
	errs.maxLength("name", name, 50)
	return name, errs.err()
}

// checkSkills rejects skill ids that do not exist.
func checkSkills(ctx context.Context, repo SkillRepository, ids []int, errs fieldErrors) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := repo.Missing(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		errs.add("skills", "Invalid pk \""+strconv.Itoa(missing[0])+"\" - object does not exist.")
	}
	return nil
}
