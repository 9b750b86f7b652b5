package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"task-scheduler/internal/model"
	"task-scheduler/internal/repository"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CategoryInput carries category fields; nil pointers keep current values on update.
type CategoryInput struct {
	Name  *string
	Color *string
	Icon  *string
}

// CategoryService provides helpers around categories and tags.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*model.Category, error) {
	var category model.Category
	if err := applyCategory(&category, input); err != nil {
		return nil, err
	}
	if category.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyCategory(category, input); err != nil {
		return nil, err
	}
	if category.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *CategoryService) Tags(ctx context.Context) ([]model.Tag, error) {
	return s.repo.ListTags(ctx)
}

// CreateTag returns the existing tag when the name is already taken.
func (s *CategoryService) CreateTag(ctx context.Context, name string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: tag name is required", ErrValidation)
	}
	return s.repo.GetOrCreateTag(ctx, name)
}

func (s *CategoryService) DeleteTag(ctx context.Context, id uint) error {
	return s.repo.DeleteTag(ctx, id)
}

func applyCategory(c *model.Category, input CategoryInput) error {
	if input.Name != nil {
		c.Name = strings.TrimSpace(*input.Name)
	}
	if input.Color != nil {
		if !colorPattern.MatchString(*input.Color) {
			return fmt.Errorf("%w: color %q must look like #rrggbb", ErrValidation, *input.Color)
		}
		c.Color = *input.Color
	}
	if input.Icon != nil {
		icon := strings.TrimSpace(*input.Icon)
		if icon == "" {
			c.Icon = nil
		} else {
			c.Icon = &icon
		}
	}
	return nil
}
