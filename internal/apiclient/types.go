package apiclient

import (
	"encoding/json"
	"time"
)

// envelope is the wire format every API endpoint responds with.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details string          `json:"details"`
}

// Group describes a group as returned by the API.
type Group struct {
	ID          int64     `json:"id"`
	GroupLink   string    `json:"group_link"`
	Title       string    `json:"title"`
	AdminUserID int64     `json:"admin_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Location describes a saved location as returned by the API.
type Location struct {
	ID          int64     `json:"id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Description string    `json:"description"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// MapPoint is a single pin on the shared map, with owner attribution.
type MapPoint struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
	FirstName   string  `json:"first_name"`
	Username    string  `json:"username"`
}

// InviteInfo is the result of validating an invite code.
type InviteInfo struct {
	GroupID    int64  `json:"group_id"`
	GroupTitle string `json:"group_title"`
}

// RegisterResult reports the outcome of registering a telegram user.
type RegisterResult struct {
	TrainingStage int
	Created       bool
}

// JoinResult reports the outcome of joining a group by invite code.
type JoinResult struct {
	AlreadyMember bool `json:"already_member"`
	Message       string
}
