package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/model"
)

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

func titles(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func TestSearchService_SearchByKeyword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	milk := f.create(t, model.TaskInput{Title: "Buy MILK"})
	report := f.create(t, model.TaskInput{Title: "Report", Description: "quarterly milkshake numbers"})
	f.create(t, model.TaskInput{Title: "Walk dog"})

	found, err := f.search.SearchByKeyword(ctx, "milk")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{milk.ID, report.ID}, ids(found))

	found, err = f.search.SearchByKeyword(ctx, "cat")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSearchService_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	high := f.create(t, model.TaskInput{Title: "high", Priority: model.PriorityHigh, CategoryID: ptr("work")})
	low := f.create(t, model.TaskInput{Title: "low", Priority: model.PriorityLow})
	started := f.create(t, model.TaskInput{Title: "started", CategoryID: ptr("work")})
	_, err := f.tasks.UpdateTaskStatus(ctx, started.ID, model.StatusInProgress)
	require.NoError(t, err)

	byStatus, err := f.search.FilterByStatus(ctx, model.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, []string{started.ID}, ids(byStatus))

	byPriority, err := f.search.FilterByPriority(ctx, model.PriorityLow)
	require.NoError(t, err)
	assert.Equal(t, []string{low.ID}, ids(byPriority))

	byCategory, err := f.search.FilterByCategory(ctx, "work")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{high.ID, started.ID}, ids(byCategory))

	none, err := f.search.FilterByCategory(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchService_OverdueAndDueSoon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	late := f.create(t, model.TaskInput{Title: "late", DueDate: due(-time.Hour)})
	soon := f.create(t, model.TaskInput{Title: "soon", DueDate: due(3 * time.Hour)})
	f.create(t, model.TaskInput{Title: "later", DueDate: due(72 * time.Hour)})
	f.create(t, model.TaskInput{Title: "undated"})
	doneLate := f.create(t, model.TaskInput{Title: "done late", DueDate: due(-time.Hour)})
	_, err := f.tasks.UpdateTaskStatus(ctx, doneLate.ID, model.StatusInProgress)
	require.NoError(t, err)
	_, err = f.tasks.UpdateTaskStatus(ctx, doneLate.ID, model.StatusDone)
	require.NoError(t, err)

	overdue, err := f.search.GetOverdueTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{late.ID}, ids(overdue))

	dueSoon, err := f.search.GetTasksDueSoon(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{soon.ID}, ids(dueSoon))

	f.clock.Advance(4 * time.Hour)
	overdue, err = f.search.GetOverdueTasks(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{late.ID, soon.ID}, ids(overdue))
}

func TestSearchService_FilterByDateRangeInclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := f.create(t, model.TaskInput{Title: "start", DueDate: due(0)})
	middle := f.create(t, model.TaskInput{Title: "middle", DueDate: due(12 * time.Hour)})
	end := f.create(t, model.TaskInput{Title: "end", DueDate: due(24 * time.Hour)})
	f.create(t, model.TaskInput{Title: "after", DueDate: due(25 * time.Hour)})
	f.create(t, model.TaskInput{Title: "undated"})

	inRange, err := f.search.FilterByDateRange(ctx, epoch, epoch.Add(24*time.Hour))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{start.ID, middle.ID, end.ID}, ids(inRange))

	empty, err := f.search.FilterByDateRange(ctx, epoch.Add(time.Hour), epoch)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSearchService_Filter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, model.TaskInput{Title: "Pay rent", Priority: model.PriorityHigh, CategoryID: ptr("home"), DueDate: due(-time.Hour)})
	b := f.create(t, model.TaskInput{Title: "Pay taxes", Priority: model.PriorityHigh, CategoryID: ptr("home")})
	c := f.create(t, model.TaskInput{Title: "Pay gym", Priority: model.PriorityLow, CategoryID: ptr("health")})

	all, err := f.search.Filter(ctx, Criteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, ids(all))

	got, err := f.search.Filter(ctx, Criteria{Keyword: "pay", Priority: model.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, ids(got))

	got, err = f.search.Filter(ctx, Criteria{CategoryID: "home", OverdueOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, ids(got))

	got, err = f.search.Filter(ctx, Criteria{Status: model.StatusDone})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.search.Filter(ctx, Criteria{Keyword: "   "})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSearchService_FilterCombinesDueSoonAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	todo := f.create(t, model.TaskInput{Title: "todo soon", DueDate: due(2 * time.Hour)})
	started := f.create(t, model.TaskInput{Title: "started soon", DueDate: due(2 * time.Hour)})
	_, err := f.tasks.UpdateTaskStatus(ctx, started.ID, model.StatusInProgress)
	require.NoError(t, err)
	f.create(t, model.TaskInput{Title: "late", DueDate: due(-time.Hour)})

	got, err := f.search.Filter(ctx, Criteria{DueSoonOnly: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{todo.ID, started.ID}, ids(got))

	got, err = f.search.Filter(ctx, Criteria{DueSoonOnly: true, Status: model.StatusTodo})
	require.NoError(t, err)
	assert.Equal(t, []string{todo.ID}, ids(got))
}

func TestSearchService_PersistenceError(t *testing.T) {
	svc := NewSearchService(failingTasks{})
	_, err := svc.Filter(context.Background(), Criteria{})
	assert.True(t, errors.Is(err, model.ErrPersistence))
}

func sortFixture() []model.Task {
	at := func(d time.Duration) *time.Time { return due(d) }
	return []model.Task{
		{ID: "1", Title: "bravo", Priority: model.PriorityLow, DueDate: at(5 * time.Hour), CreatedAt: epoch.Add(3 * time.Second)},
		{ID: "2", Title: "alpha", Priority: model.PriorityCritical, CreatedAt: epoch.Add(1 * time.Second)},
		{ID: "3", Title: "delta", Priority: model.PriorityMedium, DueDate: at(time.Hour), CreatedAt: epoch.Add(4 * time.Second)},
		{ID: "4", Title: "charlie", Priority: model.PriorityMedium, DueDate: at(9 * time.Hour), CreatedAt: epoch.Add(2 * time.Second)},
		{ID: "5", Title: "echo", Priority: model.PriorityHigh, CreatedAt: epoch},
	}
}

func TestSortTasks(t *testing.T) {
	tasks := sortFixture()

	tests := []struct {
		strategy SortStrategy
		want     []string
	}{
		{SortPriorityDesc, []string{"2", "5", "3", "4", "1"}},
		{SortPriorityAsc, []string{"1", "3", "4", "5", "2"}},
		{SortDueDateAsc, []string{"3", "1", "4", "2", "5"}},
		{SortDueDateDesc, []string{"4", "1", "3", "2", "5"}},
		{SortCreatedAsc, []string{"5", "2", "4", "1", "3"}},
		{SortCreatedDesc, []string{"3", "1", "4", "2", "5"}},
		{SortTitleAsc, []string{"2", "1", "4", "3", "5"}},
		{SortTitleDesc, []string{"5", "3", "4", "1", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(SortTasks(tasks, tt.strategy)))
		})
	}

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(tasks), "input must not be reordered")
}

func TestSortTasks_PriorityDirectionsMirror(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Priority: model.PriorityHigh},
		{ID: "b", Priority: model.PriorityLow},
		{ID: "c", Priority: model.PriorityCritical},
		{ID: "d", Priority: model.PriorityMedium},
	}
	desc := ids(SortTasks(tasks, SortPriorityDesc))
	asc := ids(SortTasks(tasks, SortPriorityAsc))
	for i := range desc {
		assert.Equal(t, desc[i], asc[len(asc)-1-i])
	}
}

func TestSortTasks_Stable(t *testing.T) {
	tasks := []model.Task{
		{ID: "first", Title: "same", Priority: model.PriorityHigh},
		{ID: "second", Title: "same", Priority: model.PriorityHigh},
		{ID: "third", Title: "same", Priority: model.PriorityHigh},
	}
	for _, strategy := range SortStrategies {
		assert.Equal(t, []string{"first", "second", "third"}, ids(SortTasks(tasks, strategy)), strategy.String())
	}
	assert.Empty(t, SortTasks(nil, SortTitleAsc))
}

func TestSortTasks_UnknownStrategyKeepsOrder(t *testing.T) {
	tasks := sortFixture()
	got := SortTasks(tasks, SortStrategy(99))
	assert.Equal(t, ids(tasks), ids(got))
	assert.Equal(t, "SortStrategy(99)", SortStrategy(99).String())

	got[0].Title = "changed"
	assert.Equal(t, "bravo", tasks[0].Title, "result is a copy")
}

func TestSearchService_SortUsesStrategy(t *testing.T) {
	f := newFixture(t)
	sorted := f.search.Sort(sortFixture(), SortTitleAsc)
	assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta", "echo"}, titles(sorted))
}

func TestParseSortStrategy(t *testing.T) {
	tests := map[string]SortStrategy{
		"priority-desc": SortPriorityDesc,
		"PRIORITY_DESC": SortPriorityDesc,
		"priority":      SortPriorityDesc,
		"priority_asc":  SortPriorityAsc,
		"due":           SortDueDateAsc,
		"DUE_DATE_ASC":  SortDueDateAsc,
		"due-date-desc": SortDueDateDesc,
		"oldest":        SortCreatedAsc,
		"newest":        SortCreatedDesc,
		" title ":       SortTitleAsc,
		"title-desc":    SortTitleDesc,
	}
	for raw, want := range tests {
		got, err := ParseSortStrategy(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseSortStrategy("random")
	assert.True(t, errors.Is(err, model.ErrValidation))

	for _, strategy := range SortStrategies {
		got, err := ParseSortStrategy(strategy.String())
		require.NoError(t, err)
		assert.Equal(t, strategy, got)
	}
}
