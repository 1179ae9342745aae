package repository

import (
	"context"
	"fmt"

	"task-manager/internal/model"
)

// JSONTaskRepository stores tasks in a single JSON file.
type JSONTaskRepository struct {
	tasks *jsonCollection[model.Task]
}

// NewJSONTaskRepository loads path into memory. A missing file is an empty store.
func NewJSONTaskRepository(path string) (*JSONTaskRepository, error) {
	tasks, err := openCollection(path,
		func(t model.Task) string { return t.ID },
		func(a, b model.Task) bool { return a.CreatedAt.Before(b.CreatedAt) },
		model.Task.Validate,
	)
	if err != nil {
		return nil, err
	}
	return &JSONTaskRepository{tasks: tasks}, nil
}

// Save inserts or replaces the task with the same ID.
func (r *JSONTaskRepository) Save(ctx context.Context, task model.Task) (model.Task, error) {
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if err := r.tasks.put(task.Clone()); err != nil {
		return model.Task{}, fmt.Errorf("save task: %w", err)
	}
	return task, nil
}

func (r *JSONTaskRepository) FindByID(ctx context.Context, id string) (model.Task, error) {
	task, ok := r.tasks.get(id)
	if !ok {
		return model.Task{}, fmt.Errorf("%w: task with id %q", model.ErrNotFound, id)
	}
	return task.Clone(), nil
}

func (r *JSONTaskRepository) FindAll(ctx context.Context) ([]model.Task, error) {
	return cloneTasks(r.tasks.all(nil)), nil
}

func (r *JSONTaskRepository) FindByCategoryID(ctx context.Context, categoryID string) ([]model.Task, error) {
	return cloneTasks(r.tasks.all(func(t model.Task) bool { return t.InCategory(categoryID) })), nil
}

// DeleteByID reports whether a task was removed.
func (r *JSONTaskRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	removed, err := r.tasks.remove(id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return removed, nil
}

func (r *JSONTaskRepository) DeleteAll(ctx context.Context) error {
	if err := r.tasks.clear(); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	return nil
}

func (r *JSONTaskRepository) Count(ctx context.Context) (int64, error) {
	return int64(r.tasks.len()), nil
}

// cloneTasks detaches results from the cache so callers cannot write through its pointers.
func cloneTasks(tasks []model.Task) []model.Task {
	for i := range tasks {
		tasks[i] = tasks[i].Clone()
	}
	return tasks
}
