package model

import (
	"time"

	"task-scheduler/internal/calendar"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities for sorting, higher is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type RecurrenceType string

const (
	RecurNone    RecurrenceType = ""
	RecurDaily   RecurrenceType = "daily"
	RecurWeekly  RecurrenceType = "weekly"
	RecurMonthly RecurrenceType = "monthly"
	RecurCustom  RecurrenceType = "custom"
)

// Task is a task definition. Recurring tasks are never materialized as extra rows;
// their dated occurrences are computed on every range query.
type Task struct {
	ID          uint `gorm:"primaryKey"`
	Title       string
	Description string
	Priority    Priority  `gorm:"default:medium"`
	Status      Status    `gorm:"default:pending;index"`
	CategoryID  *uint     `gorm:"index"`
	Category    *Category `gorm:"constraint:OnDelete:SET NULL"`
	Tags        []Tag     `gorm:"many2many:task_tags"`

	// Dates are YYYY-MM-DD strings so that range filters compare lexicographically.
	Deadline      *string `gorm:"index"`
	ScheduledDate *string `gorm:"index"`

	RecurrenceType     RecurrenceType `gorm:"index"`
	RecurrenceInterval int            `gorm:"default:1"`
	RecurrenceDays     []int          `gorm:"serializer:json"` // weekdays, 0 = Sunday
	RecurrenceEndDate  *string
	RecurrenceCount    *int

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t Task) IsRecurring() bool {
	return t.RecurrenceType != RecurNone
}

// AnchorDate is the day a recurring sequence starts from: the scheduled date,
// else the deadline, else the creation day.
func (t Task) AnchorDate() string {
	switch {
	case t.ScheduledDate != nil:
		return *t.ScheduledDate
	case t.Deadline != nil:
		return *t.Deadline
	default:
		return calendar.DateOf(t.CreatedAt)
	}
}
