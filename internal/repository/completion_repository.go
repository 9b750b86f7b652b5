package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-scheduler/internal/model"
)

// CompletionRepository stores per-occurrence completion markers.
type CompletionRepository struct {
	db *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// MarkersFor returns the completed occurrence dates of a task inside [start, end].
func (r *CompletionRepository) MarkersFor(ctx context.Context, taskID uint, start, end string) (map[string]struct{}, error) {
	var dates []string
	err := r.db.WithContext(ctx).Model(&model.Completion{}).
		Where("task_id = ? AND occurrence_date BETWEEN ? AND ?", taskID, start, end).
		Pluck("occurrence_date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("load completions for task %d: %w", taskID, err)
	}
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set, nil
}

// Toggle inserts the marker for (taskID, date) when absent and deletes it when
// present. It reports whether the occurrence is completed afterwards.
func (r *CompletionRepository) Toggle(ctx context.Context, taskID uint, date string) (bool, error) {
	var done bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Completion
		err := tx.Where("task_id = ? AND occurrence_date = ?", taskID, date).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("delete completion: %w", err)
			}
			done = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			marker := model.Completion{TaskID: taskID, OccurrenceDate: date, CompletedAt: time.Now().UTC()}
			if err := tx.Create(&marker).Error; err != nil {
				return fmt.Errorf("create completion: %w", err)
			}
			done = true
		default:
			return fmt.Errorf("find completion: %w", err)
		}
		return nil
	})
	return done, err
}

func (r *CompletionRepository) Exists(ctx context.Context, taskID uint, date string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Completion{}).
		Where("task_id = ? AND occurrence_date = ?", taskID, date).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count completions: %w", err)
	}
	return n > 0, nil
}
