package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"task-scheduler/internal/model"
	"task-scheduler/internal/repository"
)

func ptr[T any](v T) *T { return &v }

// fakeAgenda serves a fixed set of entries, keeping those dated inside the window.
type fakeAgenda struct {
	entries []model.Entry
	windows [][2]string
}

func (f *fakeAgenda) TasksForRange(_ context.Context, start, end string) ([]model.Entry, error) {
	f.windows = append(f.windows, [2]string{start, end})
	var out []model.Entry
	for _, e := range f.entries {
		if d := e.Date(); d >= start && d <= end {
			out = append(out, e)
		}
	}
	return out, nil
}

func oneOff(date string, status model.Status) model.Entry {
	return model.Entry{Task: model.Task{Title: "task " + date, ScheduledDate: ptr(date), Status: status}}
}

func occurrenceOn(date string, done bool) model.Entry {
	return model.Entry{
		Task:           model.Task{Title: "habit", RecurrenceType: model.RecurDaily, RecurrenceInterval: 1, Status: model.StatusPending},
		OccurrenceDate: date,
		IsCompleted:    done,
	}
}

type stack struct {
	tasks       *repository.TaskRepository
	completions *repository.CompletionRepository
	categories  *repository.CategoryRepository
	taskSvc     *TaskService
	agenda      *AgendaService
	stats       *StatsService
}

func newStack(t *testing.T) *stack {
	t.Helper()

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	s := &stack{
		tasks:       repository.NewTaskRepository(db),
		completions: repository.NewCompletionRepository(db),
		categories:  repository.NewCategoryRepository(db),
	}
	s.taskSvc = NewTaskService(s.tasks, s.completions, s.categories)
	s.agenda = NewAgendaService(s.tasks, s.completions)
	s.stats = NewStatsService(s.agenda)
	return s
}
