package domain

import "time"

// User represents an application user stored in the database.
// Users are created on first bot contact and are never deleted.
type User struct {
	ID            int64 `gorm:"primaryKey"`
	TelegramID    int64 `gorm:"uniqueIndex;not null"`
	Username      string
	FirstName     string
	TrainingStage int `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
