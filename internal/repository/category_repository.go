package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-manager/internal/model"
)

// SQLCategoryRepository manages task categories in a gorm-backed database.
type SQLCategoryRepository struct {
	db *gorm.DB
}

func NewSQLCategoryRepository(db *gorm.DB) *SQLCategoryRepository {
	return &SQLCategoryRepository{db: db}
}

func (r *SQLCategoryRepository) Save(ctx context.Context, category model.Category) (model.Category, error) {
	if err := category.Validate(); err != nil {
		return model.Category{}, err
	}
	record := newCategoryRecord(category)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&record).Error
	if err != nil {
		return model.Category{}, fmt.Errorf("%w: save category: %w", model.ErrPersistence, err)
	}
	return category, nil
}

func (r *SQLCategoryRepository) FindByID(ctx context.Context, id string) (model.Category, error) {
	return r.first(ctx, fmt.Sprintf("category with id %q", id), "id = ?", id)
}

// FindByName compares names case-insensitively.
func (r *SQLCategoryRepository) FindByName(ctx context.Context, name string) (model.Category, error) {
	return r.first(ctx, fmt.Sprintf("category named %q", name), "LOWER(name) = LOWER(?)", name)
}

func (r *SQLCategoryRepository) first(ctx context.Context, what string, query string, args ...any) (model.Category, error) {
	var record categoryRecord
	err := r.db.WithContext(ctx).Where(query, args...).First(&record).Error
	switch {
	case err == nil:
		return record.toModel(), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Category{}, fmt.Errorf("%w: %s", model.ErrNotFound, what)
	default:
		return model.Category{}, fmt.Errorf("%w: find category: %w", model.ErrPersistence, err)
	}
}

func (r *SQLCategoryRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: list categories: %w", model.ErrPersistence, err)
	}
	categories := make([]model.Category, 0, len(records))
	for _, record := range records {
		categories = append(categories, record.toModel())
	}
	return categories, nil
}

func (r *SQLCategoryRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&categoryRecord{})
	if result.Error != nil {
		return false, fmt.Errorf("%w: delete category: %w", model.ErrPersistence, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *SQLCategoryRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&categoryRecord{}).Error; err != nil {
		return fmt.Errorf("%w: delete categories: %w", model.ErrPersistence, err)
	}
	return nil
}

func (r *SQLCategoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&categoryRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%w: count categories: %w", model.ErrPersistence, err)
	}
	return n, nil
}
