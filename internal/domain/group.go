package domain

import "time"

// Group is a named collection of users joinable via an invite code.
// The GroupLink slug doubles as the join credential.
type Group struct {
	ID          int64  `gorm:"primaryKey"`
	GroupLink   string `gorm:"uniqueIndex;size:255;not null"`
	Title       string `gorm:"size:120;not null"`
	AdminUserID int64  `gorm:"not null"`
	AdminUser   *User  `gorm:"foreignKey:AdminUserID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserGroup links a user to a group. At most one row per (group, user) pair;
// rows are removed when the user leaves or the group is deleted.
type UserGroup struct {
	ID        int64 `gorm:"primaryKey"`
	GroupID   int64 `gorm:"uniqueIndex:idx_group_user;not null"`
	UserID    int64 `gorm:"uniqueIndex:idx_group_user;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
