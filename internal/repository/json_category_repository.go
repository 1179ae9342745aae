package repository

import (
	"context"
	"fmt"

	"task-manager/internal/model"
)

// JSONCategoryRepository stores categories in a single JSON file.
type JSONCategoryRepository struct {
	categories *jsonCollection[model.Category]
}

func NewJSONCategoryRepository(path string) (*JSONCategoryRepository, error) {
	categories, err := openCollection(path,
		func(c model.Category) string { return c.ID },
		func(a, b model.Category) bool { return a.Name < b.Name },
		model.Category.Validate,
	)
	if err != nil {
		return nil, err
	}
	return &JSONCategoryRepository{categories: categories}, nil
}

func (r *JSONCategoryRepository) Save(ctx context.Context, category model.Category) (model.Category, error) {
	if err := category.Validate(); err != nil {
		return model.Category{}, err
	}
	if err := r.categories.put(category); err != nil {
		return model.Category{}, fmt.Errorf("save category: %w", err)
	}
	return category, nil
}

func (r *JSONCategoryRepository) FindByID(ctx context.Context, id string) (model.Category, error) {
	category, ok := r.categories.get(id)
	if !ok {
		return model.Category{}, fmt.Errorf("%w: category with id %q", model.ErrNotFound, id)
	}
	return category, nil
}

// FindByName matches names case-insensitively.
func (r *JSONCategoryRepository) FindByName(ctx context.Context, name string) (model.Category, error) {
	category, ok := r.categories.find(func(c model.Category) bool { return c.HasName(name) })
	if !ok {
		return model.Category{}, fmt.Errorf("%w: category named %q", model.ErrNotFound, name)
	}
	return category, nil
}

func (r *JSONCategoryRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	return r.categories.all(nil), nil
}

func (r *JSONCategoryRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	removed, err := r.categories.remove(id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return removed, nil
}

func (r *JSONCategoryRepository) DeleteAll(ctx context.Context) error {
	if err := r.categories.clear(); err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}
	return nil
}

func (r *JSONCategoryRepository) Count(ctx context.Context) (int64, error) {
	return int64(r.categories.len()), nil
}
