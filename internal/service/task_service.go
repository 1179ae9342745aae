package service

import (
	"context"
	"time"

	"task-manager/internal/model"
)

// Statistics is a snapshot of task counts.
type Statistics struct {
	Total      int
	Todo       int
	InProgress int
	Done       int
	Cancelled  int
	Overdue    int
}

// TaskService wraps task-related business logic.
type TaskService struct {
	tasks TaskRepository
	now   func() time.Time
}

func NewTaskService(tasks TaskRepository, opts ...Option) *TaskService {
	o := buildOptions(opts)
	return &TaskService{tasks: tasks, now: o.now}
}

// CreateTask stores a new TODO task. Omitted priority defaults to medium.
func (s *TaskService) CreateTask(ctx context.Context, input model.TaskInput) (model.Task, error) {
	task, err := model.NewTask(input, s.now())
	if err != nil {
		return model.Task{}, err
	}
	return s.tasks.Save(ctx, task)
}

// UpdateTaskStatus fails with model.ErrIllegalTransition when the move is not in the transition graph.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, id string, status model.Status) (model.Task, error) {
	return s.update(ctx, id, func(t model.Task, now time.Time) (model.Task, error) {
		return t.WithStatus(status, now)
	})
}

func (s *TaskService) UpdateTaskPriority(ctx context.Context, id string, priority model.Priority) (model.Task, error) {
	return s.update(ctx, id, func(t model.Task, now time.Time) (model.Task, error) {
		return t.WithPriority(priority, now)
	})
}

func (s *TaskService) UpdateTaskTitle(ctx context.Context, id, title string) (model.Task, error) {
	return s.update(ctx, id, func(t model.Task, now time.Time) (model.Task, error) {
		return t.WithTitle(title, now)
	})
}

func (s *TaskService) UpdateTaskDescription(ctx context.Context, id, description string) (model.Task, error) {
	return s.update(ctx, id, func(t model.Task, now time.Time) (model.Task, error) {
		return t.WithDescription(description, now), nil
	})
}

// UpdateTaskDueDate sets the due date; nil clears it.
func (s *TaskService) UpdateTaskDueDate(ctx context.Context, id string, due *time.Time) (model.Task, error) {
	return s.update(ctx, id, func(t model.Task, now time.Time) (model.Task, error) {
		return t.WithDueDate(due, now), nil
	})
}

// UpdateTaskCategory sets the category reference; nil clears it. The category is not checked for existence.
func (s *TaskService) UpdateTaskCategory(ctx context.Context, id string, categoryID *string) (model.Task, error) {
	return s.update(ctx, id, func(t model.Task, now time.Time) (model.Task, error) {
		return t.WithCategory(categoryID, now), nil
	})
}

func (s *TaskService) update(ctx context.Context, id string, change func(model.Task, time.Time) (model.Task, error)) (model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	updated, err := change(task, s.now())
	if err != nil {
		return model.Task{}, err
	}
	return s.tasks.Save(ctx, updated)
}

func (s *TaskService) GetTask(ctx context.Context, id string) (model.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]model.Task, error) {
	return s.tasks.FindAll(ctx)
}

func (s *TaskService) GetTasksByCategory(ctx context.Context, categoryID string) ([]model.Task, error) {
	return s.tasks.FindByCategoryID(ctx, categoryID)
}

// DeleteTask reports whether a task with that id existed.
func (s *TaskService) DeleteTask(ctx context.Context, id string) (bool, error) {
	return s.tasks.DeleteByID(ctx, id)
}

// GetStatistics counts tasks per status and overdue tasks in a single pass.
func (s *TaskService) GetStatistics(ctx context.Context) (Statistics, error) {
	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		return Statistics{}, err
	}
	return computeStatistics(tasks, s.now()), nil
}

func computeStatistics(tasks []model.Task, now time.Time) Statistics {
	stats := Statistics{Total: len(tasks)}
	for _, task := range tasks {
		switch task.Status {
		case model.StatusTodo:
			stats.Todo++
		case model.StatusInProgress:
			stats.InProgress++
		case model.StatusDone:
			stats.Done++
		case model.StatusCancelled:
			stats.Cancelled++
		}
		if task.IsOverdueAt(now) {
			stats.Overdue++
		}
	}
	return stats
}
