package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-scheduler/internal/model"
)

func TestDailySummary(t *testing.T) {
	const today = "2024-03-10"
	high := oneOff(today, model.StatusPending)
	high.Task.Title = "<file> taxes"
	high.Task.Priority = model.PriorityHigh
	high.Task.Category = &model.Category{Name: "Work"}

	agenda := &fakeAgenda{entries: []model.Entry{
		high,
		occurrenceOn(today, true),
		occurrenceOn("2024-03-09", true),
		oneOff("2024-03-05", model.StatusPending),
	}}
	svc := NewReminderService(agenda, NewStatsService(agenda), 3)

	text, err := svc.DailySummary(context.Background(), day(t, today))
	require.NoError(t, err)

	assert.Contains(t, text, "🗓 2024-03-10")
	assert.Contains(t, text, "⬜ &lt;file&gt; taxes ❗ <i>(Work)</i>")
	assert.Contains(t, text, "✅ habit ♻️")
	assert.Contains(t, text, "Today: 1/2 (50%)")
	assert.Contains(t, text, "Last 7 days: 2/4")
	assert.Contains(t, text, "⚠️ Overdue: 1")
	assert.Contains(t, text, "🏆 Streak: 0 (best 1), last full day 2024-03-09")
	assert.Contains(t, text, "··█▄")
}

func TestSparkline(t *testing.T) {
	got := sparkline([]model.TrendPoint{
		{Total: 0},
		{Total: 4, Completed: 0},
		{Total: 4, Completed: 4, Ratio: 1},
	})
	assert.Equal(t, "·▁█", got)
}
