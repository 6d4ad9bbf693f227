// Package user provides registration and onboarding-stage operations.
package user

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/geopin/geopin-bot/internal/domain"
	apperrors "github.com/geopin/geopin-bot/internal/errors"
	"github.com/geopin/geopin-bot/internal/repository"
	"github.com/geopin/geopin-bot/internal/training"
	"github.com/geopin/geopin-bot/pkg/metrics"
)

// Service provides business operations over users.
type Service struct {
	repo repository.UserRepository
	log  *slog.Logger
}

// NewService constructs a new Service instance.
func NewService(repo repository.UserRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{repo: repo, log: log}
}

// RegisterOrFetch creates a user on first contact or returns the existing
// record. The second return value reports whether a new user was created.
func (s *Service) RegisterOrFetch(ctx context.Context, telegramID int64, username, firstName string) (*domain.User, bool, error) {
	if telegramID <= 0 {
		return nil, false, apperrors.NewInvalidInput("telegram_id обязателен")
	}

	existing, err := s.repo.FindByTelegramID(ctx, telegramID)
	if err == nil {
		return existing, false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.NewPersistenceError(err)
	}

	newUser := &domain.User{
		TelegramID:    telegramID,
		Username:      username,
		FirstName:     firstName,
		TrainingStage: int(training.StageNew),
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		// another request may have registered the same user concurrently
		if existing, findErr := s.repo.FindByTelegramID(ctx, telegramID); findErr == nil {
			return existing, false, nil
		}
		return nil, false, apperrors.NewPersistenceError(err)
	}

	s.log.Info("user registered", slog.Int64("telegram_id", telegramID))

	return newUser, true, nil
}

// UpdateTrainingStage moves the user's onboarding stage. Normal progression
// is monotonic: the stored stage never decreases. Force bypasses the
// monotonic guard for the explicit skip and repeat commands.
func (s *Service) UpdateTrainingStage(ctx context.Context, telegramID int64, newStage int, force bool) (training.Stage, error) {
	user, err := s.repo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NewNotFound("user")
		}
		return 0, apperrors.NewPersistenceError(err)
	}

	current := training.Clamp(user.TrainingStage)
	target := training.Clamp(newStage)
	if !force {
		target = training.Advance(current, target)
	}

	if target == current {
		return current, nil
	}

	if err := s.repo.UpdateTrainingStage(ctx, telegramID, int(target)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NewNotFound("user")
		}
		return 0, apperrors.NewPersistenceError(err)
	}

	metrics.RecordTrainingStage(target.String())
	s.log.Info("training stage updated",
		slog.Int64("telegram_id", telegramID),
		slog.String("from", current.String()),
		slog.String("to", target.String()),
	)

	return target, nil
}
