package repository

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/geopin/geopin-bot/internal/domain"
)

// LocationRepository defines persistence operations for saved locations.
type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Location, error)
	DeleteOwned(ctx context.Context, locationID, userID int64) (bool, error)
	ListMapPoints(ctx context.Context) ([]domain.MapPoint, error)
}

type locationRepository struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewLocationRepository creates a SQLite-backed location repository.
func NewLocationRepository(db *gorm.DB, log *slog.Logger) LocationRepository {
	return &locationRepository{
		db:  db,
		log: log,
	}
}

// Create persists a new location record.
func (r *locationRepository) Create(ctx context.Context, location *domain.Location) error {
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		if r.log != nil {
			r.log.Error("failed to create location", slog.Int64("user_id", location.UserID), slog.Any("error", err))
		}
		return fmt.Errorf("insert location: %w", err)
	}

	return nil
}

// ListByUser returns all locations owned by the given user.
func (r *locationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Location, error) {
	var locations []domain.Location
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	return locations, nil
}

// DeleteOwned removes a location only when it belongs to the given user.
// Returns false when no matching row existed.
func (r *locationRepository) DeleteOwned(ctx context.Context, locationID, userID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", locationID, userID).
		Delete(&domain.Location{})
	if result.Error != nil {
		if r.log != nil {
			r.log.Error("failed to delete location", slog.Int64("location_id", locationID), slog.Any("error", result.Error))
		}
		return false, fmt.Errorf("delete location: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// ListMapPoints returns every saved location joined with its owner's display info.
func (r *locationRepository) ListMapPoints(ctx context.Context) ([]domain.MapPoint, error) {
	var points []domain.MapPoint
	err := r.db.WithContext(ctx).
		Model(&domain.Location{}).
		Select("locations.latitude, locations.longitude, locations.description, users.first_name, users.username").
		Joins("JOIN users ON users.id = locations.user_id").
		Order("locations.id").
		Scan(&points).Error
	if err != nil {
		return nil, fmt.Errorf("list map points: %w", err)
	}

	return points, nil
}
