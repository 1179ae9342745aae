package service

import (
	"context"
	"time"

	"task-manager/internal/model"
)

// TaskRepository is the task persistence contract. FindByID returns an error
// wrapping model.ErrNotFound when the id is unknown.
type TaskRepository interface {
	Save(ctx context.Context, task model.Task) (model.Task, error)
	FindByID(ctx context.Context, id string) (model.Task, error)
	FindAll(ctx context.Context) ([]model.Task, error)
	FindByCategoryID(ctx context.Context, categoryID string) ([]model.Task, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// CategoryRepository is the category persistence contract. FindByName is case-insensitive.
type CategoryRepository interface {
	Save(ctx context.Context, category model.Category) (model.Category, error)
	FindByID(ctx context.Context, id string) (model.Category, error)
	FindByName(ctx context.Context, name string) (model.Category, error)
	FindAll(ctx context.Context) ([]model.Category, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// Option configures a service.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
