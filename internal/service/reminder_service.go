package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"task-manager/internal/model"
)

// Digest groups the tasks that need attention at one instant.
type Digest struct {
	At      time.Time
	Overdue []model.Task
	DueSoon []model.Task
	Stats   Statistics
}

// Empty reports whether nothing is overdue or due soon.
func (d Digest) Empty() bool {
	return len(d.Overdue) == 0 && len(d.DueSoon) == 0
}

// ReminderService builds human-readable summaries for periodic notifications.
type ReminderService struct {
	tasks      TaskRepository
	categories CategoryRepository
}

func NewReminderService(tasks TaskRepository, categories CategoryRepository) *ReminderService {
	return &ReminderService{tasks: tasks, categories: categories}
}

// Digest classifies every task against the single instant now, earliest due first.
func (s *ReminderService) Digest(ctx context.Context, now time.Time) (Digest, error) {
	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		return Digest{}, err
	}

	digest := Digest{At: now, Stats: computeStatistics(tasks, now)}
	for _, task := range tasks {
		switch {
		case task.IsOverdueAt(now):
			digest.Overdue = append(digest.Overdue, task)
		case task.IsDueSoonAt(now):
			digest.DueSoon = append(digest.DueSoon, task)
		}
	}
	digest.Overdue = SortTasks(digest.Overdue, SortDueDateAsc)
	digest.DueSoon = SortTasks(digest.DueSoon, SortDueDateAsc)
	return digest, nil
}

// Summary renders the digest as plain text.
func (s *ReminderService) Summary(ctx context.Context, now time.Time) (string, error) {
	digest, err := s.Digest(ctx, now)
	if err != nil {
		return "", err
	}

	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return "", err
	}
	catNames := make(map[string]string, len(categories))
	for _, cat := range categories {
		catNames[cat.ID] = cat.Name
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Reminder for %s\n", now.Format(model.DateLayout)))

	builder.WriteString("\nOverdue\n")
	if len(digest.Overdue) == 0 {
		builder.WriteString("  - nothing overdue\n")
	}
	for _, task := range digest.Overdue {
		builder.WriteString(formatReminder(task, catNames, now))
	}

	builder.WriteString("\nDue within 24 hours\n")
	if len(digest.DueSoon) == 0 {
		builder.WriteString("  - nothing due soon\n")
	}
	for _, task := range digest.DueSoon {
		builder.WriteString(formatReminder(task, catNames, now))
	}

	builder.WriteString(fmt.Sprintf("\n%d open, %d in progress, %d done, %d overdue of %d tasks",
		digest.Stats.Todo, digest.Stats.InProgress, digest.Stats.Done, digest.Stats.Overdue, digest.Stats.Total))

	return builder.String(), nil
}

func formatReminder(task model.Task, catNames map[string]string, now time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  * %s [%s]", strings.TrimSpace(task.Title), task.Priority.DisplayName()))

	if task.CategoryID != nil {
		if name, ok := catNames[*task.CategoryID]; ok {
			sb.WriteString(fmt.Sprintf(" (%s)", strings.TrimSpace(name)))
		}
	}

	if task.DueDate != nil {
		d := task.DueDate.In(now.Location())
		if d.Before(now) {
			sb.WriteString(fmt.Sprintf(" due %s, %s late", d.Format(model.DateLayout), roundHours(now.Sub(d))))
		} else {
			sb.WriteString(fmt.Sprintf(" due %s, in %s", d.Format(model.DateLayout), roundHours(d.Sub(now))))
		}
	}

	sb.WriteByte('\n')
	return sb.String()
}

func roundHours(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 48*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
