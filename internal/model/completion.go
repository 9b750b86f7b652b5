package model

import "time"

// Completion marks one occurrence of a recurring task as done.
type Completion struct {
	ID             uint   `gorm:"primaryKey"`
	TaskID         uint   `gorm:"not null;uniqueIndex:idx_completion_task_date"`
	OccurrenceDate string `gorm:"not null;uniqueIndex:idx_completion_task_date;index"`
	CompletedAt    time.Time
}
