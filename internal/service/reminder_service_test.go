package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/model"
)

func TestReminderService_Digest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lateLater := f.create(t, model.TaskInput{Title: "late later", DueDate: due(-time.Hour)})
	lateFirst := f.create(t, model.TaskInput{Title: "late first", DueDate: due(-5 * time.Hour)})
	soon := f.create(t, model.TaskInput{Title: "soon", DueDate: due(2 * time.Hour)})
	f.create(t, model.TaskInput{Title: "far", DueDate: due(100 * time.Hour)})
	f.create(t, model.TaskInput{Title: "undated"})

	digest, err := f.reminders.Digest(ctx, epoch)
	require.NoError(t, err)

	assert.False(t, digest.Empty())
	assert.Equal(t, epoch, digest.At)
	assert.Equal(t, []string{lateFirst.ID, lateLater.ID}, ids(digest.Overdue))
	assert.Equal(t, []string{soon.ID}, ids(digest.DueSoon))
	assert.Equal(t, 5, digest.Stats.Total)
	assert.Equal(t, 2, digest.Stats.Overdue)
}

func TestReminderService_DigestEmpty(t *testing.T) {
	f := newFixture(t)
	digest, err := f.reminders.Digest(context.Background(), epoch)
	require.NoError(t, err)
	assert.True(t, digest.Empty())
	assert.Zero(t, digest.Stats.Total)
}

func TestReminderService_Summary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	work, err := f.categories.CreateCategory(ctx, "Work", "", "")
	require.NoError(t, err)
	f.create(t, model.TaskInput{Title: "Send invoice", Priority: model.PriorityHigh, CategoryID: &work.ID, DueDate: due(-time.Hour)})
	f.create(t, model.TaskInput{Title: "Call mom", CategoryID: ptr("deleted-category"), DueDate: due(3 * time.Hour)})

	summary, err := f.reminders.Summary(ctx, epoch)
	require.NoError(t, err)

	overdueAt := strings.Index(summary, "Overdue")
	dueSoonAt := strings.Index(summary, "Due within 24 hours")
	require.GreaterOrEqual(t, overdueAt, 0)
	require.Greater(t, dueSoonAt, overdueAt)

	invoice := strings.Index(summary, "Send invoice")
	call := strings.Index(summary, "Call mom")
	assert.True(t, invoice > overdueAt && invoice < dueSoonAt)
	assert.Greater(t, call, dueSoonAt)

	assert.Contains(t, summary, "(Work)")
	assert.Contains(t, summary, "1h late")
	assert.Contains(t, summary, "in 3h")
	assert.NotContains(t, summary, "deleted-category")
	assert.Contains(t, summary, "2 open, 0 in progress, 0 done, 1 overdue of 2 tasks")
}

func TestReminderService_SummaryNothingPending(t *testing.T) {
	f := newFixture(t)
	summary, err := f.reminders.Summary(context.Background(), epoch)
	require.NoError(t, err)
	assert.Contains(t, summary, "nothing overdue")
	assert.Contains(t, summary, "nothing due soon")
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, "45m", roundHours(45*time.Minute))
	assert.Equal(t, "5h", roundHours(5*time.Hour+10*time.Minute))
	assert.Equal(t, "3d", roundHours(80*time.Hour))
}
