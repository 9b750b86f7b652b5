package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"task-scheduler/internal/calendar"
	"task-scheduler/internal/model"
	"task-scheduler/internal/recurrence"
)

// ErrValidation marks input rejected before touching the store.
var ErrValidation = errors.New("validation failed")

// TaskSource is the read side of the task store needed to assemble a range.
type TaskSource interface {
	ListNonRecurringInRange(ctx context.Context, start, end string) ([]model.Task, error)
	ListRecurringCandidates(ctx context.Context, start, end string) ([]model.Task, error)
}

type CompletionSource interface {
	MarkersFor(ctx context.Context, taskID uint, start, end string) (map[string]struct{}, error)
}

// RangeQuerier returns every dated entry inside an inclusive date window.
type RangeQuerier interface {
	TasksForRange(ctx context.Context, start, end string) ([]model.Entry, error)
}

// AgendaService merges one-off tasks with expanded recurring occurrences.
type AgendaService struct {
	tasks       TaskSource
	completions CompletionSource
}

func NewAgendaService(tasks TaskSource, completions CompletionSource) *AgendaService {
	return &AgendaService{tasks: tasks, completions: completions}
}

// TasksForRange returns one-off tasks dated inside [start, end] ordered by date
// then priority, followed by recurring occurrences in task then date order.
// A recurring task whose definition cannot be expanded is logged and skipped.
func (s *AgendaService) TasksForRange(ctx context.Context, start, end string) ([]model.Entry, error) {
	if err := checkWindow(start, end); err != nil {
		return nil, err
	}

	oneOff, err := s.tasks.ListNonRecurringInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	entries := make([]model.Entry, 0, len(oneOff))
	for _, t := range oneOff {
		entries = append(entries, model.Entry{Task: t})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Date() != b.Date() {
			return a.Date() < b.Date()
		}
		if ra, rb := a.Task.Priority.Rank(), b.Task.Priority.Rank(); ra != rb {
			return ra > rb
		}
		return a.Task.ID < b.Task.ID
	})

	recurring, err := s.tasks.ListRecurringCandidates(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for _, t := range recurring {
		done, err := s.completions.MarkersFor(ctx, t.ID, start, end)
		if err != nil {
			return nil, err
		}
		occurrences, err := recurrence.Expand(t, start, end, done)
		if err != nil {
			log.Printf("[warn] skip task %d in %s..%s: %v", t.ID, start, end, err)
			continue
		}
		entries = append(entries, occurrences...)
	}

	return entries, nil
}

func checkWindow(start, end string) error {
	if !calendar.Valid(start) || !calendar.Valid(end) {
		return fmt.Errorf("%w: window %q..%q must use YYYY-MM-DD", ErrValidation, start, end)
	}
	if end < start {
		return fmt.Errorf("%w: window end %s is before start %s", ErrValidation, end, start)
	}
	return nil
}
