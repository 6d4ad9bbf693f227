package api

import (
	"time"

	"github.com/geopin/geopin-bot/internal/domain"
)

// GroupSummary is the serialized form of a group in API responses.
type GroupSummary struct {
	ID          int64     `json:"id"`
	GroupLink   string    `json:"group_link"`
	Title       string    `json:"title"`
	AdminUserID int64     `json:"admin_user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// LocationSummary is the serialized form of a saved location.
type LocationSummary struct {
	ID          int64     `json:"id"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Description string    `json:"description"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// InviteCheck is returned by the invite-code validation endpoint.
type InviteCheck struct {
	GroupID    int64  `json:"group_id"`
	GroupTitle string `json:"group_title"`
}

func toGroupSummary(g domain.Group) GroupSummary {
	return GroupSummary{
		ID:          g.ID,
		GroupLink:   g.GroupLink,
		Title:       g.Title,
		AdminUserID: g.AdminUserID,
		CreatedAt:   g.CreatedAt,
	}
}

func toGroupSummaries(groups []domain.Group) []GroupSummary {
	summaries := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, toGroupSummary(g))
	}
	return summaries
}

func toLocationSummary(l domain.Location) LocationSummary {
	return LocationSummary{
		ID:          l.ID,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		Description: l.Description,
		UserID:      l.UserID,
		CreatedAt:   l.CreatedAt,
	}
}

func toLocationSummaries(locations []domain.Location) []LocationSummary {
	summaries := make([]LocationSummary, 0, len(locations))
	for _, l := range locations {
		summaries = append(summaries, toLocationSummary(l))
	}
	return summaries
}
