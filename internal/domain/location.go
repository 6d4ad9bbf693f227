package domain

import "time"

// Location is a geo-tagged point saved by a user.
type Location struct {
	ID          int64   `gorm:"primaryKey"`
	Latitude    float64 `gorm:"not null"`
	Longitude   float64 `gorm:"not null"`
	Description string  `gorm:"size:120;not null"`
	UserID      int64   `gorm:"index;not null"`
	User        *User   `gorm:"foreignKey:UserID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MapPoint is a location joined with its owner's display info,
// used for the aggregated map view.
type MapPoint struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
	FirstName   string  `json:"first_name"`
	Username    string  `json:"username"`
}
