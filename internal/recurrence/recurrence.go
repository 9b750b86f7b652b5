// Package recurrence expands recurring task definitions into dated occurrences.
package recurrence

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"task-scheduler/internal/calendar"
	"task-scheduler/internal/model"
)

// MaxIterations bounds the walk when a task sets no recurrence count.
const MaxIterations = 10000

var (
	ErrInvalidInterval = errors.New("recurrence interval must be positive")
	ErrUnknownType     = errors.New("unknown recurrence type")
)

// Expand returns the occurrences of task that fall inside [rangeStart, rangeEnd].
// completed holds the occurrence dates already marked done. Non-recurring and
// cancelled tasks yield nothing.
func Expand(task model.Task, rangeStart, rangeEnd string, completed map[string]struct{}) ([]model.Entry, error) {
	if !task.IsRecurring() || task.Status == model.StatusCancelled {
		return nil, nil
	}

	interval := task.RecurrenceInterval
	if interval <= 0 {
		return nil, fmt.Errorf("task %d: %w (got %d)", task.ID, ErrInvalidInterval, interval)
	}

	step, err := stepper(task, interval)
	if err != nil {
		return nil, err
	}

	anchor, err := calendar.Parse(task.AnchorDate())
	if err != nil {
		return nil, fmt.Errorf("task %d anchor: %w", task.ID, err)
	}
	start, err := calendar.Parse(rangeStart)
	if err != nil {
		return nil, fmt.Errorf("range start: %w", err)
	}
	end, err := calendar.Parse(rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("range end: %w", err)
	}

	var endLimit *time.Time
	if task.RecurrenceEndDate != nil {
		limit, err := calendar.Parse(*task.RecurrenceEndDate)
		if err != nil {
			return nil, fmt.Errorf("task %d end date: %w", task.ID, err)
		}
		endLimit = &limit
	}

	maxCount := MaxIterations
	if task.RecurrenceCount != nil {
		maxCount = *task.RecurrenceCount
	}

	filtered := task.RecurrenceType == model.RecurWeekly && len(task.RecurrenceDays) > 0

	var out []model.Entry
	for cursor, count := anchor, 0; count < maxCount; count++ {
		if endLimit != nil && cursor.After(*endLimit) {
			break
		}
		if cursor.After(end) {
			break
		}
		if !cursor.Before(start) && (!filtered || slices.Contains(task.RecurrenceDays, int(cursor.Weekday()))) {
			out = append(out, occurrence(task, calendar.Format(cursor), completed))
		}
		cursor = step(cursor)
	}
	return out, nil
}

func stepper(task model.Task, interval int) (func(time.Time) time.Time, error) {
	switch task.RecurrenceType {
	case model.RecurDaily, model.RecurCustom:
		return func(t time.Time) time.Time { return calendar.AddDays(t, interval) }, nil
	case model.RecurWeekly:
		// A weekday filter visits every calendar day; the interval is unused then.
		if len(task.RecurrenceDays) > 0 {
			return func(t time.Time) time.Time { return calendar.AddDays(t, 1) }, nil
		}
		return func(t time.Time) time.Time { return calendar.AddDays(t, 7*interval) }, nil
	case model.RecurMonthly:
		return func(t time.Time) time.Time { return calendar.AddMonths(t, interval) }, nil
	default:
		return nil, fmt.Errorf("task %d: %w %q", task.ID, ErrUnknownType, task.RecurrenceType)
	}
}

func occurrence(task model.Task, date string, completed map[string]struct{}) model.Entry {
	task.ScheduledDate = nil
	task.Deadline = nil
	_, done := completed[date]
	return model.Entry{Task: task, OccurrenceDate: date, IsCompleted: done}
}
