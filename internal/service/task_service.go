package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"task-scheduler/internal/calendar"
	"task-scheduler/internal/model"
	"task-scheduler/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title              string
	Description        string
	Priority           model.Priority
	CategoryID         *uint
	Deadline           *string
	ScheduledDate      *string
	RecurrenceType     model.RecurrenceType
	RecurrenceInterval int
	RecurrenceDays     []int
	RecurrenceEndDate  *string
	RecurrenceCount    *int
	TagIDs             []uint
}

// TaskUpdate carries a partial update; nil fields are left untouched.
// ClearX flags reset optional fields to empty.
type TaskUpdate struct {
	Title              *string
	Description        *string
	Priority           *model.Priority
	Status             *model.Status
	CategoryID         *uint
	ClearCategory      bool
	Deadline           *string
	ClearDeadline      bool
	ScheduledDate      *string
	ClearScheduled     bool
	RecurrenceType     *model.RecurrenceType
	RecurrenceInterval *int
	RecurrenceDays     *[]int
	RecurrenceEndDate  *string
	ClearEndDate       bool
	RecurrenceCount    *int
	ClearCount         bool
	TagIDs             *[]uint
}

// TaskService wraps task lifecycle and completion toggling.
type TaskService struct {
	taskRepo       *repository.TaskRepository
	completionRepo *repository.CompletionRepository
	categoryRepo   *repository.CategoryRepository
	now            func() time.Time
}

func NewTaskService(taskRepo *repository.TaskRepository, completionRepo *repository.CompletionRepository, categoryRepo *repository.CategoryRepository) *TaskService {
	return &TaskService{
		taskRepo:       taskRepo,
		completionRepo: completionRepo,
		categoryRepo:   categoryRepo,
		now:            time.Now,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	task := model.Task{
		Title:              strings.TrimSpace(input.Title),
		Description:        input.Description,
		Priority:           input.Priority,
		Status:             model.StatusPending,
		CategoryID:         input.CategoryID,
		Deadline:           input.Deadline,
		ScheduledDate:      input.ScheduledDate,
		RecurrenceType:     input.RecurrenceType,
		RecurrenceInterval: input.RecurrenceInterval,
		RecurrenceDays:     input.RecurrenceDays,
		RecurrenceEndDate:  input.RecurrenceEndDate,
		RecurrenceCount:    input.RecurrenceCount,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.RecurrenceInterval == 0 {
		task.RecurrenceInterval = 1
	}
	if err := s.validate(ctx, &task); err != nil {
		return nil, err
	}

	tags, err := s.categoryRepo.TagsByIDs(ctx, input.TagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueIDs(input.TagIDs)) {
		return nil, fmt.Errorf("%w: unknown tag in %v", ErrValidation, input.TagIDs)
	}
	task.Tags = tags

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return s.taskRepo.FindByID(ctx, task.ID)
}

func (s *TaskService) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, id)
}

func (s *TaskService) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	return s.taskRepo.List(ctx, filter)
}

func (s *TaskService) UpdateTask(ctx context.Context, id uint, upd TaskUpdate) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prevStatus := task.Status

	if upd.Title != nil {
		task.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.Priority != nil {
		task.Priority = *upd.Priority
	}
	if upd.Status != nil {
		task.Status = *upd.Status
	}
	setOptional(&task.CategoryID, upd.CategoryID, upd.ClearCategory)
	setOptional(&task.Deadline, upd.Deadline, upd.ClearDeadline)
	setOptional(&task.ScheduledDate, upd.ScheduledDate, upd.ClearScheduled)
	setOptional(&task.RecurrenceEndDate, upd.RecurrenceEndDate, upd.ClearEndDate)
	setOptional(&task.RecurrenceCount, upd.RecurrenceCount, upd.ClearCount)
	if upd.RecurrenceType != nil {
		task.RecurrenceType = *upd.RecurrenceType
	}
	if upd.RecurrenceInterval != nil {
		task.RecurrenceInterval = *upd.RecurrenceInterval
	}
	if upd.RecurrenceDays != nil {
		task.RecurrenceDays = *upd.RecurrenceDays
	}

	switch {
	case task.Status == model.StatusCompleted && prevStatus != model.StatusCompleted:
		at := s.now().UTC()
		task.CompletedAt = &at
	case task.Status != model.StatusCompleted:
		task.CompletedAt = nil
	}

	if err := s.validate(ctx, task); err != nil {
		return nil, err
	}

	var tags []model.Tag
	if upd.TagIDs != nil {
		tags, err = s.categoryRepo.TagsByIDs(ctx, *upd.TagIDs)
		if err != nil {
			return nil, err
		}
		if len(tags) != len(uniqueIDs(*upd.TagIDs)) {
			return nil, fmt.Errorf("%w: unknown tag in %v", ErrValidation, *upd.TagIDs)
		}
	}
	task.Category = nil
	if err := s.taskRepo.Save(ctx, task, tags); err != nil {
		return nil, err
	}
	return s.taskRepo.FindByID(ctx, id)
}

// DeleteTask removes a task completely, including completion markers of its occurrences.
func (s *TaskService) DeleteTask(ctx context.Context, id uint) error {
	return s.taskRepo.Delete(ctx, id)
}

// ToggleComplete flips completion. With an occurrence date it toggles the
// marker of that occurrence of a recurring task; without one it flips the
// task status between completed and pending. It reports the resulting state.
func (s *TaskService) ToggleComplete(ctx context.Context, id uint, occurrenceDate string) (bool, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	if occurrenceDate != "" {
		if !task.IsRecurring() {
			return false, fmt.Errorf("%w: task %d is not recurring", ErrValidation, id)
		}
		if !calendar.Valid(occurrenceDate) {
			return false, fmt.Errorf("%w: occurrence date %q must use YYYY-MM-DD", ErrValidation, occurrenceDate)
		}
		return s.completionRepo.Toggle(ctx, id, occurrenceDate)
	}

	next := model.StatusCompleted
	if task.Status == model.StatusCompleted {
		next = model.StatusPending
	}
	if err := s.taskRepo.SetStatus(ctx, id, next, s.now()); err != nil {
		return false, err
	}
	return next == model.StatusCompleted, nil
}

// OccurrenceDone reports whether the task counts as completed on date: the
// stored marker for a recurring task, the task status otherwise.
func (s *TaskService) OccurrenceDone(ctx context.Context, id uint, date string) (bool, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !task.IsRecurring() {
		return task.Status == model.StatusCompleted, nil
	}
	if !calendar.Valid(date) {
		return false, fmt.Errorf("%w: occurrence date %q must use YYYY-MM-DD", ErrValidation, date)
	}
	return s.completionRepo.Exists(ctx, id, date)
}

func (s *TaskService) validate(ctx context.Context, task *model.Task) error {
	if task.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	switch task.Priority {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
	default:
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, task.Priority)
	}
	switch task.Status {
	case model.StatusPending, model.StatusInProgress, model.StatusCompleted, model.StatusCancelled:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrValidation, task.Status)
	}
	for name, d := range map[string]*string{
		"deadline":            task.Deadline,
		"scheduled date":      task.ScheduledDate,
		"recurrence end date": task.RecurrenceEndDate,
	} {
		if d != nil && !calendar.Valid(*d) {
			return fmt.Errorf("%w: %s %q must use YYYY-MM-DD", ErrValidation, name, *d)
		}
	}

	if task.RecurrenceType == "none" {
		task.RecurrenceType = model.RecurNone
	}
	switch task.RecurrenceType {
	case model.RecurNone:
		task.RecurrenceDays = nil
	case model.RecurDaily, model.RecurWeekly, model.RecurMonthly, model.RecurCustom:
		if task.RecurrenceInterval < 1 {
			return fmt.Errorf("%w: recurrence interval must be at least 1", ErrValidation)
		}
		if task.RecurrenceCount != nil && *task.RecurrenceCount < 1 {
			return fmt.Errorf("%w: recurrence count must be at least 1", ErrValidation)
		}
		days, err := normalizeWeekdays(task.RecurrenceDays)
		if err != nil {
			return err
		}
		task.RecurrenceDays = days
	default:
		return fmt.Errorf("%w: unknown recurrence type %q", ErrValidation, task.RecurrenceType)
	}

	if task.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *task.CategoryID); err != nil {
			return fmt.Errorf("%w: category %d: %v", ErrValidation, *task.CategoryID, err)
		}
	}
	return nil
}

func normalizeWeekdays(days []int) ([]int, error) {
	if len(days) == 0 {
		return nil, nil
	}
	out := slices.Clone(days)
	for _, d := range out {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: weekday %d out of range 0-6", ErrValidation, d)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func uniqueIDs(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func setOptional[T any](dst **T, value *T, clear bool) {
	switch {
	case clear:
		*dst = nil
	case value != nil:
		v := *value
		*dst = &v
	}
}
