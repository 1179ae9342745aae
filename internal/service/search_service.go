package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"task-manager/internal/model"
)

// Criteria selects tasks for Filter. Zero-valued fields match everything,
// so Criteria{} returns every task.
type Criteria struct {
	Status      model.Status
	Priority    model.Priority
	CategoryID  string
	Keyword     string
	OverdueOnly bool
	DueSoonOnly bool
}

// predicates returns the active checks; all of them must pass.
func (c Criteria) predicates(now time.Time) []func(model.Task) bool {
	var preds []func(model.Task) bool
	if c.Status != 0 {
		preds = append(preds, func(t model.Task) bool { return t.Status == c.Status })
	}
	if c.Priority != 0 {
		preds = append(preds, func(t model.Task) bool { return t.Priority == c.Priority })
	}
	if c.CategoryID != "" {
		preds = append(preds, func(t model.Task) bool { return t.InCategory(c.CategoryID) })
	}
	if strings.TrimSpace(c.Keyword) != "" {
		preds = append(preds, func(t model.Task) bool { return t.Matches(c.Keyword) })
	}
	if c.OverdueOnly {
		preds = append(preds, func(t model.Task) bool { return t.IsOverdueAt(now) })
	}
	if c.DueSoonOnly {
		preds = append(preds, func(t model.Task) bool { return t.IsDueSoonAt(now) })
	}
	return preds
}

// SearchService finds, filters and orders tasks.
type SearchService struct {
	tasks TaskRepository
	now   func() time.Time
}

func NewSearchService(tasks TaskRepository, opts ...Option) *SearchService {
	o := buildOptions(opts)
	return &SearchService{tasks: tasks, now: o.now}
}

// SearchByKeyword matches keyword against title or description, ignoring case.
func (s *SearchService) SearchByKeyword(ctx context.Context, keyword string) ([]model.Task, error) {
	return s.where(ctx, func(t model.Task) bool { return t.Matches(keyword) })
}

func (s *SearchService) FilterByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	return s.where(ctx, func(t model.Task) bool { return t.Status == status })
}

func (s *SearchService) FilterByPriority(ctx context.Context, priority model.Priority) ([]model.Task, error) {
	return s.where(ctx, func(t model.Task) bool { return t.Priority == priority })
}

func (s *SearchService) FilterByCategory(ctx context.Context, categoryID string) ([]model.Task, error) {
	return s.tasks.FindByCategoryID(ctx, categoryID)
}

func (s *SearchService) GetOverdueTasks(ctx context.Context) ([]model.Task, error) {
	now := s.now()
	return s.where(ctx, func(t model.Task) bool { return t.IsOverdueAt(now) })
}

func (s *SearchService) GetTasksDueSoon(ctx context.Context) ([]model.Task, error) {
	now := s.now()
	return s.where(ctx, func(t model.Task) bool { return t.IsDueSoonAt(now) })
}

// FilterByDateRange returns tasks due within [start, end], both ends inclusive.
func (s *SearchService) FilterByDateRange(ctx context.Context, start, end time.Time) ([]model.Task, error) {
	return s.where(ctx, func(t model.Task) bool {
		return t.DueDate != nil && !t.DueDate.Before(start) && !t.DueDate.After(end)
	})
}

// Filter applies every active criterion at once.
func (s *SearchService) Filter(ctx context.Context, criteria Criteria) ([]model.Task, error) {
	preds := criteria.predicates(s.now())
	return s.where(ctx, func(t model.Task) bool {
		for _, pred := range preds {
			if !pred(t) {
				return false
			}
		}
		return true
	})
}

func (s *SearchService) where(ctx context.Context, keep func(model.Task) bool) ([]model.Task, error) {
	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if keep(task) {
			out = append(out, task)
		}
	}
	return out, nil
}

// SortStrategy names an ordering of tasks.
type SortStrategy int

const (
	SortPriorityDesc SortStrategy = iota
	SortPriorityAsc
	SortDueDateAsc
	SortDueDateDesc
	SortCreatedAsc
	SortCreatedDesc
	SortTitleAsc
	SortTitleDesc
)

// SortStrategies lists every strategy.
var SortStrategies = []SortStrategy{
	SortPriorityDesc, SortPriorityAsc,
	SortDueDateAsc, SortDueDateDesc,
	SortCreatedAsc, SortCreatedDesc,
	SortTitleAsc, SortTitleDesc,
}

type sortSpec struct {
	name    string
	aliases []string
	less    func(a, b model.Task) bool
}

var sortTable = map[SortStrategy]sortSpec{
	SortPriorityDesc: {"priority-desc", []string{"priority"}, func(a, b model.Task) bool {
		return a.Priority.Level() > b.Priority.Level()
	}},
	SortPriorityAsc: {"priority-asc", nil, func(a, b model.Task) bool {
		return a.Priority.Level() < b.Priority.Level()
	}},
	SortDueDateAsc: {"due-asc", []string{"due", "due-date", "due-date-asc"}, func(a, b model.Task) bool {
		return dueLess(a, b, func(x, y time.Time) bool { return x.Before(y) })
	}},
	SortDueDateDesc: {"due-desc", []string{"due-date-desc"}, func(a, b model.Task) bool {
		return dueLess(a, b, func(x, y time.Time) bool { return x.After(y) })
	}},
	SortCreatedAsc: {"created-asc", []string{"created", "oldest"}, func(a, b model.Task) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	}},
	SortCreatedDesc: {"created-desc", []string{"newest"}, func(a, b model.Task) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}},
	SortTitleAsc: {"title-asc", []string{"title"}, func(a, b model.Task) bool {
		return a.Title < b.Title
	}},
	SortTitleDesc: {"title-desc", nil, func(a, b model.Task) bool {
		return a.Title > b.Title
	}},
}

// dueLess puts tasks without a due date last in either direction.
func dueLess(a, b model.Task, before func(x, y time.Time) bool) bool {
	switch {
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	default:
		return before(*a.DueDate, *b.DueDate)
	}
}

func (s SortStrategy) String() string {
	if spec, ok := sortTable[s]; ok {
		return spec.name
	}
	return fmt.Sprintf("SortStrategy(%d)", int(s))
}

// ParseSortStrategy accepts names like "priority-desc", "PRIORITY_DESC" or short aliases like "due".
func ParseSortStrategy(raw string) (SortStrategy, error) {
	token := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	for _, strategy := range SortStrategies {
		spec := sortTable[strategy]
		if token == spec.name {
			return strategy, nil
		}
		for _, alias := range spec.aliases {
			if token == alias {
				return strategy, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unknown sort strategy %q", model.ErrValidation, raw)
}

// Sort returns a stably ordered copy of tasks; the input slice is left untouched.
func (s *SearchService) Sort(tasks []model.Task, strategy SortStrategy) []model.Task {
	return SortTasks(tasks, strategy)
}

// SortTasks returns a stably ordered copy of tasks. A strategy outside
// SortStrategies leaves the copy in input order.
func SortTasks(tasks []model.Task, strategy SortStrategy) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	spec, ok := sortTable[strategy]
	if !ok {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return spec.less(out[i], out[j]) })
	return out
}
