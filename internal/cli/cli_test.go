package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-scheduler/internal/calendar"
	"task-scheduler/internal/repository"
	"task-scheduler/internal/service"
)

type harness struct {
	app      *App
	out, err *bytes.Buffer
}

func newHarness(t *testing.T, today string) *harness {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ref, err := calendar.Parse(today)
	require.NoError(t, err)

	taskRepo := repository.NewTaskRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	agenda := service.NewAgendaService(taskRepo, completionRepo)

	h := &harness{out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	h.app = &App{
		Tasks:      service.NewTaskService(taskRepo, completionRepo, categoryRepo),
		Categories: service.NewCategoryService(categoryRepo),
		Settings:   repository.NewSettingRepository(db),
		Agenda:     agenda,
		Stats:      service.NewStatsService(agenda),
		TrendDays:  3,
		Today:      func() time.Time { return ref },
		Out:        h.out,
		Err:        h.err,
	}
	return h
}

func (h *harness) run(t *testing.T, args ...string) (int, string) {
	t.Helper()
	h.out.Reset()
	h.err.Reset()
	code := h.app.Run(context.Background(), args)
	return code, h.out.String()
}

func TestRunUsage(t *testing.T) {
	h := newHarness(t, "2024-03-05")

	code, out := h.run(t)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage: taskctl")
	assert.Contains(t, out, "toggle <id>")

	code, _ = h.run(t, "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.err.String(), `unknown command "frobnicate"`)

	code, out = h.run(t, "add", "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "--title")
}

func TestTaskLifecycle(t *testing.T) {
	h := newHarness(t, "2024-03-05")

	code, out := h.run(t, "add", "-t", "Pay rent", "--scheduled", "2024-03-05", "-p", "high")
	require.Equal(t, 0, code, h.err.String())
	assert.Equal(t, "created task 1\n", out)

	code, out = h.run(t, "add", "-t", "Stretch", "--repeat", "daily", "--scheduled", "2024-03-04")
	require.Equal(t, 0, code, h.err.String())
	assert.Equal(t, "created task 2\n", out)

	code, out = h.run(t, "toggle", "2", "--date", "2024-03-05")
	require.Equal(t, 0, code, h.err.String())
	assert.Equal(t, "task 2 on 2024-03-05: done\n", out)

	code, out = h.run(t, "range")
	require.Equal(t, 0, code, h.err.String())
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Pay rent")
	assert.Contains(t, lines[1], "[ ]")
	assert.Contains(t, lines[2], "Stretch")
	assert.Contains(t, lines[2], "[x]")
	assert.Contains(t, lines[2], "occurrence")

	code, out = h.run(t, "toggle", "1")
	require.Equal(t, 0, code, h.err.String())
	assert.Equal(t, "task 1: done\n", out)

	code, out = h.run(t, "stats")
	require.Equal(t, 0, code, h.err.String())
	assert.Contains(t, out, "2/2")
	assert.Contains(t, out, "100%")

	code, out = h.run(t, "show", "1")
	require.Equal(t, 0, code, h.err.String())
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "high")

	code, out = h.run(t, "rm", "1")
	require.Equal(t, 0, code, h.err.String())
	assert.Equal(t, "deleted task 1\n", out)

	code, _ = h.run(t, "show", "1")
	assert.Equal(t, 1, code)
}

func TestToggleDateOnOneOffFails(t *testing.T) {
	h := newHarness(t, "2024-03-05")

	code, _ := h.run(t, "add", "-t", "One off", "--deadline", "2024-03-06")
	require.Equal(t, 0, code, h.err.String())

	code, _ = h.run(t, "toggle", "1", "--date", "2024-03-05")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.err.String(), "not recurring")
}

func TestRangeRejectsReversedWindow(t *testing.T) {
	h := newHarness(t, "2024-03-05")

	code, _ := h.run(t, "range", "2024-03-10", "2024-03-01")
	assert.Equal(t, 1, code)
}

func TestTrendUsesConfiguredLength(t *testing.T) {
	h := newHarness(t, "2024-03-05")

	code, out := h.run(t, "trend")
	require.Equal(t, 0, code, h.err.String())
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "2024-03-02"))
	assert.True(t, strings.HasPrefix(lines[4], "2024-03-05"))

	code, out = h.run(t, "trend", "-n", "0", "--today", "2024-01-01")
	require.Equal(t, 0, code, h.err.String())
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	code, _ = h.run(t, "trend", "-n", "-1")
	assert.Equal(t, 1, code)
}

func TestStreakWithoutHistory(t *testing.T) {
	h := newHarness(t, "2024-03-05")

	code, out := h.run(t, "streak")
	require.Equal(t, 0, code, h.err.String())
	assert.Equal(t, "current: 0\nlongest: 0\nlast full day: -\n", out)
}

func TestCategoriesAndTags(t *testing.T) {
	h := newHarness(t, "2024-03-05")

	code, out := h.run(t, "categories")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Work")

	code, _ = h.run(t, "category-add", "--name", "Errands", "--color", "#ff0000")
	require.Equal(t, 0, code, h.err.String())

	code, _ = h.run(t, "category-add", "--name", "Bad", "--color", "red")
	assert.Equal(t, 1, code)

	code, out = h.run(t, "tag-add", "urgent")
	require.Equal(t, 0, code, h.err.String())
	assert.Equal(t, "tag 1\turgent\n", out)

	code, _ = h.run(t, "add", "-t", "Call bank", "--tag", "1", "--category", "1")
	require.Equal(t, 0, code, h.err.String())

	code, out = h.run(t, "ls", "--tag", "1")
	require.Equal(t, 0, code, h.err.String())
	assert.Contains(t, out, "Call bank")

	code, _ = h.run(t, "add", "-t", "Nope", "--tag", "42")
	assert.Equal(t, 1, code)
}

func TestSettings(t *testing.T) {
	h := newHarness(t, "2024-03-05")

	code, _ := h.run(t, "get", "theme")
	assert.Equal(t, 1, code)

	code, _ = h.run(t, "set", "theme", "dark")
	require.Equal(t, 0, code, h.err.String())

	code, out := h.run(t, "get", "theme")
	require.Equal(t, 0, code)
	assert.Equal(t, "dark\n", out)

	code, _ = h.run(t, "unset", "theme")
	require.Equal(t, 0, code)
	code, _ = h.run(t, "get", "theme")
	assert.Equal(t, 1, code)
}

func TestRangeMonthAndNext(t *testing.T) {
	h := newHarness(t, "2024-02-10")

	for _, date := range []string{"2024-01-31", "2024-02-01", "2024-02-29", "2024-03-01"} {
		code, _ := h.run(t, "add", "-t", "due "+date, "--deadline", date)
		require.Equal(t, 0, code, h.err.String())
	}

	code, out := h.run(t, "range", "--month")
	require.Equal(t, 0, code, h.err.String())
	assert.NotContains(t, out, "due 2024-01-31")
	assert.Contains(t, out, "due 2024-02-01")
	assert.Contains(t, out, "due 2024-02-29")
	assert.NotContains(t, out, "due 2024-03-01")

	code, out = h.run(t, "range", "2024-02-28", "--next", "2")
	require.Equal(t, 0, code, h.err.String())
	assert.Contains(t, out, "due 2024-02-29")
	assert.Contains(t, out, "due 2024-03-01")
	assert.NotContains(t, out, "due 2024-02-01")

	code, _ = h.run(t, "range", "2024-02-01", "2024-02-05", "--month")
	assert.Equal(t, 1, code)
	code, _ = h.run(t, "range", "--month", "--next", "3")
	assert.Equal(t, 1, code)
}

func TestShowReportsCompletionOnDate(t *testing.T) {
	h := newHarness(t, "2024-03-05")

	code, _ := h.run(t, "add", "-t", "Stretch", "--repeat", "daily", "--scheduled", "2024-03-01")
	require.Equal(t, 0, code, h.err.String())
	code, _ = h.run(t, "toggle", "1", "--date", "2024-03-02")
	require.Equal(t, 0, code, h.err.String())

	code, out := h.run(t, "show", "1", "--date", "2024-03-02")
	require.Equal(t, 0, code, h.err.String())
	assert.Contains(t, out, "on 2024-03-02: done\n")

	code, out = h.run(t, "show", "1", "--date", "2024-03-03")
	require.Equal(t, 0, code, h.err.String())
	assert.Contains(t, out, "on 2024-03-03: open\n")
}

func TestEditClearsWeekdaysAndAcceptsNone(t *testing.T) {
	h := newHarness(t, "2024-03-05")

	code, _ := h.run(t, "add", "-t", "Gym", "--repeat", "weekly", "--days", "1,3", "--scheduled", "2024-03-04")
	require.Equal(t, 0, code, h.err.String())
	code, out := h.run(t, "show", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "weekdays:")

	code, _ = h.run(t, "edit", "1", "--no-days", "--days", "2")
	assert.Equal(t, 1, code)

	code, _ = h.run(t, "edit", "1", "--no-days")
	require.Equal(t, 0, code, h.err.String())
	code, out = h.run(t, "show", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "repeat:")
	assert.NotContains(t, out, "weekdays:")

	code, _ = h.run(t, "edit", "1", "--repeat", "none")
	require.Equal(t, 0, code, h.err.String())
	code, out = h.run(t, "show", "1")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "repeat:")

	code, _ = h.run(t, "add", "-t", "Once", "--repeat", "none")
	assert.Equal(t, 0, code, h.err.String())
}

func TestParseGlobal(t *testing.T) {
	path, rest, err := ParseGlobal([]string{"-c", "planner.yaml", "add", "-t", "x"}, "")
	require.NoError(t, err)
	assert.Equal(t, "planner.yaml", path)
	assert.Equal(t, []string{"add", "-t", "x"}, rest)

	path, rest, err = ParseGlobal([]string{"ls", "--config", "ignored.yaml"}, "env.yaml")
	require.NoError(t, err)
	assert.Equal(t, "env.yaml", path)
	assert.Equal(t, []string{"ls", "--config", "ignored.yaml"}, rest)

	_, rest, err = ParseGlobal([]string{"--help"}, "")
	require.NoError(t, err)
	assert.Empty(t, rest)

	_, _, err = ParseGlobal([]string{"--bogus"}, "")
	assert.Error(t, err)
}
