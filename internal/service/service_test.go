package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"task-manager/internal/model"
	"task-manager/internal/repository"
)

var epoch = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	clock      *fakeClock
	taskRepo   *repository.JSONTaskRepository
	catRepo    *repository.JSONCategoryRepository
	tasks      *TaskService
	categories *CategoryService
	search     *SearchService
	reminders  *ReminderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	taskRepo, err := repository.NewJSONTaskRepository(filepath.Join(dir, "tasks.json"))
	require.NoError(t, err)
	catRepo, err := repository.NewJSONCategoryRepository(filepath.Join(dir, "categories.json"))
	require.NoError(t, err)

	clock := &fakeClock{now: epoch}
	return &fixture{
		clock:      clock,
		taskRepo:   taskRepo,
		catRepo:    catRepo,
		tasks:      NewTaskService(taskRepo, WithClock(clock.Now)),
		categories: NewCategoryService(catRepo),
		search:     NewSearchService(taskRepo, WithClock(clock.Now)),
		reminders:  NewReminderService(taskRepo, catRepo),
	}
}

// create stores a task and advances the clock so creation times are distinct.
func (f *fixture) create(t *testing.T, input model.TaskInput) model.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(context.Background(), input)
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	return task
}

func due(d time.Duration) *time.Time {
	v := epoch.Add(d)
	return &v
}

func ptr(s string) *string { return &s }

// failingTasks is a TaskRepository whose every call fails.
type failingTasks struct{}

var errDisk = errors.New("disk on fire")

func (failingTasks) Save(context.Context, model.Task) (model.Task, error) {
	return model.Task{}, errors.Join(model.ErrPersistence, errDisk)
}
func (failingTasks) FindByID(context.Context, string) (model.Task, error) {
	return model.Task{}, errors.Join(model.ErrPersistence, errDisk)
}
func (failingTasks) FindAll(context.Context) ([]model.Task, error) {
	return nil, errors.Join(model.ErrPersistence, errDisk)
}
func (failingTasks) FindByCategoryID(context.Context, string) ([]model.Task, error) {
	return nil, errors.Join(model.ErrPersistence, errDisk)
}
func (failingTasks) DeleteByID(context.Context, string) (bool, error) {
	return false, errors.Join(model.ErrPersistence, errDisk)
}
func (failingTasks) DeleteAll(context.Context) error { return errors.Join(model.ErrPersistence, errDisk) }
func (failingTasks) Count(context.Context) (int64, error) {
	return 0, errors.Join(model.ErrPersistence, errDisk)
}
