package service

import (
	"context"
	"errors"
	"fmt"

	"task-manager/internal/model"
)

// CategoryService provides helpers around categories and keeps names unique.
type CategoryService struct {
	categories CategoryRepository
}

func NewCategoryService(categories CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CreateCategory fails with model.ErrConflict when the name is taken, ignoring case.
func (s *CategoryService) CreateCategory(ctx context.Context, name, description, color string) (model.Category, error) {
	category, err := model.NewCategory(name, description, color)
	if err != nil {
		return model.Category{}, err
	}
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return model.Category{}, err
	}
	return s.categories.Save(ctx, category)
}

// UpdateCategoryName allows renaming a category to its own name in another case.
func (s *CategoryService) UpdateCategoryName(ctx context.Context, id, name string) (model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return model.Category{}, err
	}
	renamed, err := category.WithName(name)
	if err != nil {
		return model.Category{}, err
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return model.Category{}, err
	}
	return s.categories.Save(ctx, renamed)
}

func (s *CategoryService) UpdateCategoryDescription(ctx context.Context, id, description string) (model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return model.Category{}, err
	}
	return s.categories.Save(ctx, category.WithDescription(description))
}

func (s *CategoryService) UpdateCategoryColor(ctx context.Context, id, color string) (model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return model.Category{}, err
	}
	return s.categories.Save(ctx, category.WithColor(color))
}

func (s *CategoryService) GetCategory(ctx context.Context, id string) (model.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *CategoryService) GetCategoryByName(ctx context.Context, name string) (model.Category, error) {
	return s.categories.FindByName(ctx, name)
}

func (s *CategoryService) GetAllCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.FindAll(ctx)
}

// DeleteCategory removes the category only; tasks keep their now dangling reference.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) (bool, error) {
	return s.categories.DeleteByID(ctx, id)
}

// SeedDefaults stores the default categories when the store is empty and returns how many were added.
func (s *CategoryService) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.categories.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	defaults := model.DefaultCategories()
	for _, category := range defaults {
		if _, err := s.categories.Save(ctx, category); err != nil {
			return 0, fmt.Errorf("seed category %q: %w", category.Name, err)
		}
	}
	return len(defaults), nil
}

// ensureNameFree fails when another category (not selfID) already uses name.
func (s *CategoryService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.categories.FindByName(ctx, name)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == selfID:
		return nil
	default:
		return fmt.Errorf("%w: category with name %q already exists", model.ErrConflict, name)
	}
}
