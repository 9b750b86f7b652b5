package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-scheduler/internal/calendar"
	"task-scheduler/internal/model"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.Parse(s)
	require.NoError(t, err)
	return d
}

func rel(t *testing.T, today string, n int) string {
	t.Helper()
	d, err := calendar.Shift(today, n)
	require.NoError(t, err)
	return d
}

func TestDashboardUsesThreeWindows(t *testing.T) {
	const today = "2024-03-10"
	agenda := &fakeAgenda{entries: []model.Entry{
		oneOff(today, model.StatusCompleted),
		occurrenceOn(today, false),
		occurrenceOn(today, true),
		oneOff(rel(t, today, -3), model.StatusPending),   // overdue
		occurrenceOn(rel(t, today, -5), false),           // overdue
		oneOff(rel(t, today, -7), model.StatusCompleted), // weekly edge
		oneOff(rel(t, today, -20), model.StatusInProgress),
		oneOff(rel(t, today, -30), model.StatusCancelled),
		oneOff(rel(t, today, -31), model.StatusPending), // outside
		oneOff(rel(t, today, 2), model.StatusPending),   // future
	}}

	got, err := NewStatsService(agenda).Dashboard(context.Background(), day(t, today))
	require.NoError(t, err)

	want := model.DashboardStats{
		TotalToday:       3,
		CompletedToday:   2,
		OverdueCount:     4,
		SuccessRatio:     2.0 / 3.0,
		WeeklyCompleted:  3,
		WeeklyTotal:      6,
		MonthlyCompleted: 3,
		MonthlyTotal:     8,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dashboard mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, [][2]string{
		{"2024-03-10", "2024-03-10"},
		{"2024-03-03", "2024-03-10"},
		{"2024-02-09", "2024-03-10"},
	}, agenda.windows)
}

func TestDashboardEmptyDayHasZeroRatio(t *testing.T) {
	got, err := NewStatsService(&fakeAgenda{}).Dashboard(context.Background(), day(t, "2024-03-10"))
	require.NoError(t, err)
	assert.Zero(t, got.TotalToday)
	assert.Zero(t, got.SuccessRatio)
}

func TestDashboardRatioMatchesCounts(t *testing.T) {
	const today = "2024-06-01"
	for total := 1; total <= 6; total++ {
		for done := 0; done <= total; done++ {
			var entries []model.Entry
			for i := 0; i < total; i++ {
				entries = append(entries, occurrenceOn(today, i < done))
			}
			got, err := NewStatsService(&fakeAgenda{entries: entries}).Dashboard(context.Background(), day(t, today))
			require.NoError(t, err)
			assert.InDelta(t, float64(done)/float64(total), got.SuccessRatio, 1e-9)
		}
	}
}

func TestStreakBreaksOnFirstIncompleteDay(t *testing.T) {
	const today = "2024-03-20"
	var entries []model.Entry
	for i := 1; i <= 5; i++ {
		entries = append(entries, occurrenceOn(rel(t, today, -i), true))
	}
	entries = append(entries,
		occurrenceOn(rel(t, today, -6), true),
		occurrenceOn(rel(t, today, -6), false),
	)
	for i := 10; i <= 12; i++ {
		entries = append(entries, oneOff(rel(t, today, -i), model.StatusCompleted))
	}

	got, err := NewStatsService(&fakeAgenda{entries: entries}).Streak(context.Background(), day(t, today))
	require.NoError(t, err)
	assert.Equal(t, 5, got.CurrentStreak)
	assert.Equal(t, 5, got.LongestStreak)
	require.NotNil(t, got.LastCompletionDate)
	assert.Equal(t, "2024-03-19", *got.LastCompletionDate)
}

func TestStreakLongestRunIsOlder(t *testing.T) {
	const today = "2024-03-20"
	entries := []model.Entry{
		oneOff(today, model.StatusCompleted),
		oneOff(rel(t, today, -1), model.StatusPending),
	}
	for i := 30; i < 37; i++ {
		entries = append(entries, occurrenceOn(rel(t, today, -i), true))
	}

	got, err := NewStatsService(&fakeAgenda{entries: entries}).Streak(context.Background(), day(t, today))
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 7, got.LongestStreak)
	assert.Equal(t, today, *got.LastCompletionDate)
}

func TestStreakWithoutBreakCoversWindow(t *testing.T) {
	const today = "2024-03-20"
	entries := []model.Entry{
		occurrenceOn(rel(t, today, -2), true),
		occurrenceOn(rel(t, today, -40), true),
		occurrenceOn(rel(t, today, -90), true),
		occurrenceOn(rel(t, today, -91), false), // outside the window
	}

	got, err := NewStatsService(&fakeAgenda{entries: entries}).Streak(context.Background(), day(t, today))
	require.NoError(t, err)
	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 3, got.LongestStreak)
}

func TestStreakNoCompletions(t *testing.T) {
	const today = "2024-03-20"
	got, err := NewStatsService(&fakeAgenda{entries: []model.Entry{oneOff(today, model.StatusPending)}}).
		Streak(context.Background(), day(t, today))
	require.NoError(t, err)
	assert.Equal(t, model.StreakInfo{}, got)
}

func TestTrendIsDense(t *testing.T) {
	agenda := &fakeAgenda{entries: []model.Entry{
		occurrenceOn("2024-03-08", true),
		occurrenceOn("2024-03-08", false),
		oneOff("2024-03-10", model.StatusCompleted),
	}}

	got, err := NewStatsService(agenda).Trend(context.Background(), day(t, "2024-03-10"), 3)
	require.NoError(t, err)

	want := []model.TrendPoint{
		{Date: "2024-03-07"},
		{Date: "2024-03-08", Total: 2, Completed: 1, Ratio: 0.5},
		{Date: "2024-03-09"},
		{Date: "2024-03-10", Total: 1, Completed: 1, Ratio: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("trend mismatch (-want +got):\n%s", diff)
	}
}

func TestTrendRejectsNegativeDays(t *testing.T) {
	_, err := NewStatsService(&fakeAgenda{}).Trend(context.Background(), day(t, "2024-03-10"), -1)
	assert.ErrorIs(t, err, ErrValidation)
}
