// Package location manages geo-tagged points saved by users.
package location

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/geopin/geopin-bot/internal/domain"
	apperrors "github.com/geopin/geopin-bot/internal/errors"
	"github.com/geopin/geopin-bot/internal/repository"
)

const maxDescriptionLen = 120

// Service provides location CRUD scoped to the owning user.
type Service struct {
	locations repository.LocationRepository
	users     repository.UserRepository
	log       *slog.Logger
}

// NewService constructs a location Service.
func NewService(locations repository.LocationRepository, users repository.UserRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		locations: locations,
		users:     users,
		log:       log,
	}
}

// Add validates and stores a new location for the user.
func (s *Service) Add(ctx context.Context, telegramID int64, latitude, longitude float64, description string) (*domain.Location, error) {
	if !isFinite(latitude) || !isFinite(longitude) {
		return nil, apperrors.NewInvalidInput("координаты должны быть числами")
	}
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil, apperrors.NewInvalidInput("координаты вне допустимого диапазона")
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperrors.NewInvalidInput("описание не может быть пустым")
	}
	if len([]rune(description)) > maxDescriptionLen {
		description = string([]rune(description)[:maxDescriptionLen])
	}

	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	location := &domain.Location{
		Latitude:    latitude,
		Longitude:   longitude,
		Description: description,
		UserID:      user.ID,
	}

	if err := s.locations.Create(ctx, location); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	s.log.Info("location added",
		slog.Int64("telegram_id", telegramID),
		slog.Int64("location_id", location.ID),
	)

	return location, nil
}

// ListForUser returns all locations owned by the user.
func (s *Service) ListForUser(ctx context.Context, telegramID int64) ([]domain.Location, error) {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	locations, err := s.locations.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	return locations, nil
}

// Delete removes a location owned by the user. A location that is absent or
// belongs to somebody else is NotFound.
func (s *Service) Delete(ctx context.Context, locationID, telegramID int64) error {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return err
	}

	deleted, err := s.locations.DeleteOwned(ctx, locationID, user.ID)
	if err != nil {
		return apperrors.NewPersistenceError(err)
	}

	if !deleted {
		return apperrors.NewNotFound("location")
	}

	return nil
}

// MapData returns every location with its owner's display info for the map view.
func (s *Service) MapData(ctx context.Context) ([]domain.MapPoint, error) {
	points, err := s.locations.ListMapPoints(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	return points, nil
}

func (s *Service) resolveUser(ctx context.Context, telegramID int64) (*domain.User, error) {
	user, err := s.users.FindByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	return user, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
