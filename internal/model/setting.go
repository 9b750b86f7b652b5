package model

import "time"

type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

// Subscriber is a Telegram chat that receives digests.
type Subscriber struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	LastName   string
	Username   string
	Active     bool `gorm:"default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
