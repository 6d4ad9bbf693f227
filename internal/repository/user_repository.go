package repository

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/geopin/geopin-bot/internal/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	UpdateTrainingStage(ctx context.Context, telegramID int64, stage int) error
}

type userRepository struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewUserRepository creates a SQLite-backed user repository.
func NewUserRepository(db *gorm.DB, log *slog.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log,
	}
}

// FindByTelegramID retrieves a user by their Telegram identifier.
// gorm.ErrRecordNotFound is passed through for absent users.
func (r *userRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound && r.log != nil {
			r.log.Error("failed to fetch user by telegram id", slog.Int64("telegram_id", telegramID), slog.Any("error", err))
		}
		return nil, err
	}

	return &user, nil
}

// Create persists a new user record.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if r.log != nil {
			r.log.Error("failed to create user", slog.Int64("telegram_id", user.TelegramID), slog.Any("error", err))
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// UpdateTrainingStage stores a new onboarding stage for the user.
func (r *userRepository) UpdateTrainingStage(ctx context.Context, telegramID int64, stage int) error {
	result := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("telegram_id = ?", telegramID).
		Update("training_stage", stage)
	if result.Error != nil {
		if r.log != nil {
			r.log.Error("failed to update training stage", slog.Int64("telegram_id", telegramID), slog.Any("error", result.Error))
		}
		return fmt.Errorf("update training stage: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
