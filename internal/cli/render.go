package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"task-manager/internal/model"
	"task-manager/internal/service"
)

const missingCategory = "(category not found)"

func (s *Shell) renderTasks(tasks []model.Task, categories []model.Category) {
	if len(tasks) == 0 {
		s.printf("No tasks found.\n")
		return
	}

	names := make(map[string]string, len(categories))
	for _, category := range categories {
		names[category.ID] = category.Name
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tTITLE\tPRIORITY\tSTATUS\tCATEGORY\tDUE\t")
	for i, task := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			shortID(task.ID),
			truncate(task.Title, 40),
			task.Priority.DisplayName(),
			task.Status.DisplayName(),
			categoryName(task.CategoryID, names),
			s.formatDue(task.DueDate),
			dueMarker(task, now),
		)
	}
	w.Flush()
	fmt.Fprintf(s.out, "%d task(s).\n", len(tasks))
}

func (s *Shell) renderCategories(categories []model.Category) {
	if len(categories) == 0 {
		s.printf("No categories yet.\n")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCOLOR\tDESCRIPTION")
	for _, category := range categories {
		fmt.Fprintf(w, "%s\t%s\t%s\n", category.Name, category.Color, category.Description)
	}
	w.Flush()
}

func (s *Shell) renderStats(stats service.Statistics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	rows := []struct {
		label string
		count int
	}{
		{"Total", stats.Total},
		{model.StatusTodo.DisplayName(), stats.Todo},
		{model.StatusInProgress.DisplayName(), stats.InProgress},
		{model.StatusDone.DisplayName(), stats.Done},
		{model.StatusCancelled.DisplayName(), stats.Cancelled},
		{"Overdue", stats.Overdue},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s:\t%d\n", row.label, row.count)
	}
	w.Flush()
}

func (s *Shell) formatDue(due *time.Time) string {
	if due == nil {
		return "-"
	}
	return due.In(s.loc).Format(model.DateLayout)
}

func categoryName(categoryID *string, names map[string]string) string {
	if categoryID == nil {
		return "-"
	}
	if name, ok := names[*categoryID]; ok {
		return name
	}
	return missingCategory
}

func dueMarker(task model.Task, now time.Time) string {
	switch {
	case task.IsOverdueAt(now):
		return "OVERDUE"
	case task.IsDueSoonAt(now):
		return "due soon"
	default:
		return ""
	}
}

func truncate(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}
