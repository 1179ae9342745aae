package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-manager/internal/model"
)

// SQLTaskRepository handles task persistence in a gorm-backed database.
type SQLTaskRepository struct {
	db *gorm.DB
}

func NewSQLTaskRepository(db *gorm.DB) *SQLTaskRepository {
	return &SQLTaskRepository{db: db}
}

// Save inserts the task or overwrites the row with the same ID.
func (r *SQLTaskRepository) Save(ctx context.Context, task model.Task) (model.Task, error) {
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	record := newTaskRecord(task)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&record).Error
	if err != nil {
		return model.Task{}, fmt.Errorf("%w: save task: %w", model.ErrPersistence, err)
	}
	return task, nil
}

func (r *SQLTaskRepository) FindByID(ctx context.Context, id string) (model.Task, error) {
	var record taskRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	switch {
	case err == nil:
		return record.toModel()
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Task{}, fmt.Errorf("%w: task with id %q", model.ErrNotFound, id)
	default:
		return model.Task{}, fmt.Errorf("%w: find task: %w", model.ErrPersistence, err)
	}
}

func (r *SQLTaskRepository) FindAll(ctx context.Context) ([]model.Task, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *SQLTaskRepository) FindByCategoryID(ctx context.Context, categoryID string) ([]model.Task, error) {
	return r.list(r.db.WithContext(ctx).Where("category_id = ?", categoryID))
}

func (r *SQLTaskRepository) list(query *gorm.DB) ([]model.Task, error) {
	var records []taskRecord
	if err := query.Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: list tasks: %w", model.ErrPersistence, err)
	}
	tasks := make([]model.Task, 0, len(records))
	for _, record := range records {
		task, err := record.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// DeleteByID reports whether a row was removed.
func (r *SQLTaskRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&taskRecord{})
	if result.Error != nil {
		return false, fmt.Errorf("%w: delete task: %w", model.ErrPersistence, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *SQLTaskRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&taskRecord{}).Error; err != nil {
		return fmt.Errorf("%w: delete tasks: %w", model.ErrPersistence, err)
	}
	return nil
}

func (r *SQLTaskRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&taskRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%w: count tasks: %w", model.ErrPersistence, err)
	}
	return n, nil
}
