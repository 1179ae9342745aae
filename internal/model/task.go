package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DueSoonWindow is how far ahead of now a due date counts as "due soon".
const DueSoonWindow = 24 * time.Hour

// Task represents a single item in the tracker.
//
// A Task is a value: the With* methods return a modified copy with UpdatedAt
// bumped and never touch the receiver.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	CategoryID  *string    `json:"category_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	Priority    Priority // zero means PriorityMedium
	CategoryID  *string
	DueDate     *time.Time
}

// NewTask builds a TODO task with a fresh identifier.
func NewTask(input TaskInput, now time.Time) (Task, error) {
	priority := input.Priority
	if priority == 0 {
		priority = PriorityMedium
	}
	task := Task{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		Status:      StatusTodo,
		CategoryID:  cloneString(input.CategoryID),
		DueDate:     cloneTime(input.DueDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return Task{}, err
	}
	return task, nil
}

// Validate checks the invariants every stored task must hold.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: task id is required", ErrValidation)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: task title cannot be blank", ErrValidation)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("%w: invalid priority %d", ErrValidation, int(t.Priority))
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: invalid status %d", ErrValidation, int(t.Status))
	}
	return nil
}

// IsOverdueAt reports whether the task has a due date strictly before now and is not done.
func (t Task) IsOverdueAt(now time.Time) bool {
	return t.DueDate != nil && t.Status != StatusDone && t.DueDate.Before(now)
}

// IsDueSoonAt reports whether the task falls due within DueSoonWindow of now
// without already being overdue. Evaluated against the same instant, it is
// never true together with IsOverdueAt.
func (t Task) IsDueSoonAt(now time.Time) bool {
	return t.DueDate != nil &&
		t.Status != StatusDone &&
		now.Add(DueSoonWindow).After(*t.DueDate) &&
		!t.IsOverdueAt(now)
}

func (t Task) IsOverdue() bool { return t.IsOverdueAt(time.Now()) }

func (t Task) IsDueSoon() bool { return t.IsDueSoonAt(time.Now()) }

// Matches reports whether keyword occurs in the title or description, ignoring case.
func (t Task) Matches(keyword string) bool {
	return ContainsFold(t.Title, keyword) || ContainsFold(t.Description, keyword)
}

// InCategory reports whether the task references categoryID.
func (t Task) InCategory(categoryID string) bool {
	return t.CategoryID != nil && *t.CategoryID == categoryID
}

// WithStatus moves the task along the transition graph.
func (t Task) WithStatus(next Status, now time.Time) (Task, error) {
	if !t.Status.CanTransitionTo(next) {
		return Task{}, fmt.Errorf("%w: cannot transition from %s to %s", ErrIllegalTransition, t.Status, next)
	}
	t.Status = next
	t.UpdatedAt = now
	return t, nil
}

func (t Task) WithPriority(priority Priority, now time.Time) (Task, error) {
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: invalid priority %d", ErrValidation, int(priority))
	}
	t.Priority = priority
	t.UpdatedAt = now
	return t, nil
}

func (t Task) WithTitle(title string, now time.Time) (Task, error) {
	if strings.TrimSpace(title) == "" {
		return Task{}, fmt.Errorf("%w: task title cannot be blank", ErrValidation)
	}
	t.Title = title
	t.UpdatedAt = now
	return t, nil
}

func (t Task) WithDescription(description string, now time.Time) Task {
	t.Description = description
	t.UpdatedAt = now
	return t
}

// WithDueDate sets or, with nil, clears the due date.
func (t Task) WithDueDate(due *time.Time, now time.Time) Task {
	t.DueDate = cloneTime(due)
	t.UpdatedAt = now
	return t
}

// WithCategory sets or, with nil, clears the category reference.
func (t Task) WithCategory(categoryID *string, now time.Time) Task {
	t.CategoryID = cloneString(categoryID)
	t.UpdatedAt = now
	return t
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	t.CategoryID = cloneString(t.CategoryID)
	t.DueDate = cloneTime(t.DueDate)
	return t
}

// Equal compares every attribute; timestamps are compared as instants.
func (t Task) Equal(o Task) bool {
	return t.ID == o.ID &&
		t.Title == o.Title &&
		t.Description == o.Description &&
		t.Priority == o.Priority &&
		t.Status == o.Status &&
		equalString(t.CategoryID, o.CategoryID) &&
		equalTime(t.DueDate, o.DueDate) &&
		t.CreatedAt.Equal(o.CreatedAt) &&
		t.UpdatedAt.Equal(o.UpdatedAt)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
