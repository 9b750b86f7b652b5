package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-scheduler/internal/model"
)

// TaskFilter narrows List results. Zero values mean "any".
type TaskFilter struct {
	Statuses    []model.Status
	Priorities  []model.Priority
	CategoryID  *uint
	TagIDs      []uint // match tasks carrying any of these tags
	HasDeadline *bool
	// OverdueAsOf keeps open tasks whose deadline is before this date.
	OverdueAsOf string
}

// TaskRepository handles CRUD for task definitions.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Category").Preload("Tags")
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit("Category").Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.withAssociations(ctx).First(&task, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &task, nil
}

// Save writes every column of task. When tags is non-nil the tag set is replaced.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task, tags []model.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category", "Tags").Save(task).Error; err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		if tags == nil {
			return nil
		}
		assoc := tx.Model(task).Association("Tags")
		var err error
		if len(tags) == 0 {
			err = assoc.Clear()
		} else {
			err = assoc.Replace(tags)
		}
		if err != nil {
			return fmt.Errorf("replace tags: %w", err)
		}
		task.Tags = tags
		return nil
	})
}

// Delete removes a task together with its completion markers and tag links.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.Completion{}).Error; err != nil {
			return fmt.Errorf("delete completions: %w", err)
		}
		if err := tx.Model(&model.Task{ID: id}).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		res := tx.Delete(&model.Task{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// SetStatus changes a task's status, stamping or clearing the completion time.
func (r *TaskRepository) SetStatus(ctx context.Context, id uint, status model.Status, at time.Time) error {
	updates := map[string]interface{}{"status": status, "completed_at": nil}
	if status == model.StatusCompleted {
		updates["completed_at"] = at.UTC()
	}
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("set task status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	q := r.withAssociations(ctx)
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if len(filter.Priorities) > 0 {
		q = q.Where("priority IN ?", filter.Priorities)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if len(filter.TagIDs) > 0 {
		q = q.Where("id IN (?)", r.db.Table("task_tags").Select("task_id").Where("tag_id IN ?", filter.TagIDs))
	}
	if filter.HasDeadline != nil {
		if *filter.HasDeadline {
			q = q.Where("deadline IS NOT NULL")
		} else {
			q = q.Where("deadline IS NULL")
		}
	}
	if filter.OverdueAsOf != "" {
		q = q.Where("deadline < ? AND status NOT IN ?", filter.OverdueAsOf,
			[]model.Status{model.StatusCompleted, model.StatusCancelled})
	}

	var tasks []model.Task
	if err := q.Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListNonRecurringInRange returns one-off tasks whose scheduled date or deadline
// falls inside [start, end]. Cancelled tasks are included.
func (r *TaskRepository) ListNonRecurringInRange(ctx context.Context, start, end string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.withAssociations(ctx).
		Where("recurrence_type = ?", model.RecurNone).
		Where("((scheduled_date BETWEEN ? AND ?) OR (deadline BETWEEN ? AND ?))", start, end, start, end).
		Order("COALESCE(scheduled_date, deadline), id").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks in range: %w", err)
	}
	return tasks, nil
}

// ListRecurringCandidates returns active recurring tasks that may have
// occurrences inside [start, end]: not cancelled, not ended before start and
// anchored on or before end.
func (r *TaskRepository) ListRecurringCandidates(ctx context.Context, start, end string) ([]model.Task, error) {
	var rows []model.Task
	err := r.withAssociations(ctx).
		Where("recurrence_type <> ?", model.RecurNone).
		Where("status <> ?", model.StatusCancelled).
		Where("(recurrence_end_date IS NULL OR recurrence_end_date >= ?)", start).
		Where("(COALESCE(scheduled_date, deadline) <= ? OR (scheduled_date IS NULL AND deadline IS NULL))", end).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list recurring tasks: %w", err)
	}

	// Creation-day anchors are compared here: the stored timestamp format is
	// driver specific, the UTC date portion is not.
	tasks := rows[:0]
	for _, t := range rows {
		if t.AnchorDate() <= end {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}
