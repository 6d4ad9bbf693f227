// Package group implements invite-code based group membership.
package group

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/geopin/geopin-bot/internal/domain"
	apperrors "github.com/geopin/geopin-bot/internal/errors"
	"github.com/geopin/geopin-bot/internal/repository"
	"github.com/geopin/geopin-bot/internal/slug"
)

// createAttempts bounds slug regeneration when concurrent creations collide
// on the store's uniqueness constraint.
const createAttempts = 3

// JoinResult describes the outcome of a join operation. A second join by the
// same user is not an error: AlreadyMember is set and no row is inserted.
type JoinResult struct {
	Group         *domain.Group
	AlreadyMember bool
}

// Service provides group lifecycle and membership operations.
type Service struct {
	groups  repository.GroupRepository
	users   repository.UserRepository
	slugGen *slug.Generator
	log     *slog.Logger
}

// NewService constructs a group Service.
func NewService(groups repository.GroupRepository, users repository.UserRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		groups:  groups,
		users:   users,
		slugGen: slug.NewGenerator(groups.SlugExists),
		log:     log,
	}
}

// Create validates the title, resolves the admin user, generates a unique
// invite code and persists the group. A duplicate-key conflict from a
// concurrent creation triggers slug regeneration.
func (s *Service) Create(ctx context.Context, adminTelegramID int64, title string) (*domain.Group, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewInvalidInput("название группы не может быть пустым")
	}

	admin, err := s.resolveUser(ctx, adminTelegramID)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		code, err := s.slugGen.Generate(ctx, title)
		if err != nil {
			return nil, err
		}

		group := &domain.Group{
			GroupLink:   code,
			Title:       title,
			AdminUserID: admin.ID,
		}

		err = s.groups.Create(ctx, group)
		if err == nil {
			s.log.Info("group created",
				slog.String("group_link", code),
				slog.Int64("admin_telegram_id", adminTelegramID),
			)
			return group, nil
		}

		if errors.Is(err, repository.ErrDuplicate) {
			lastErr = err
			continue
		}

		return nil, apperrors.NewPersistenceError(err)
	}

	return nil, apperrors.NewPersistenceError(fmt.Errorf("invite code collision persisted after %d attempts: %w", createAttempts, lastErr))
}

// CheckInvite resolves an invite code into its group. Read-only.
func (s *Service) CheckInvite(ctx context.Context, code string) (*domain.Group, error) {
	group, err := s.groups.FindByLink(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("invite code")
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	return group, nil
}

// Join adds the user to the group identified by the invite code. Joining a
// group the user already belongs to is idempotent: the membership count
// stays at one and AlreadyMember is reported instead of an error. The unique
// constraint on (group, user) covers the check-then-insert race.
func (s *Service) Join(ctx context.Context, code string, telegramID int64) (*JoinResult, error) {
	group, err := s.groups.FindByLink(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("group")
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	exists, err := s.groups.MemberExists(ctx, group.ID, user.ID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	if exists {
		return &JoinResult{Group: group, AlreadyMember: true}, nil
	}

	if err := s.groups.AddMember(ctx, group.ID, user.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost the race to another update of the same user
			return &JoinResult{Group: group, AlreadyMember: true}, nil
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	s.log.Info("user joined group",
		slog.String("group_link", code),
		slog.Int64("telegram_id", telegramID),
	)

	return &JoinResult{Group: group}, nil
}

// Leave removes the user's membership. Absent membership is NotFound.
func (s *Service) Leave(ctx context.Context, groupID, telegramID int64) error {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return err
	}

	removed, err := s.groups.RemoveMember(ctx, groupID, user.ID)
	if err != nil {
		return apperrors.NewPersistenceError(err)
	}

	if !removed {
		return apperrors.NewNotFound("membership")
	}

	return nil
}

// Delete removes a group and cascades to its memberships. Only the group's
// admin may delete it; a foreign group is reported as NotFound rather than
// Forbidden so that existence is not leaked to non-admins.
func (s *Service) Delete(ctx context.Context, groupID, telegramID int64) error {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return err
	}

	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("group")
		}
		return apperrors.NewPersistenceError(err)
	}

	if group.AdminUserID != user.ID {
		return apperrors.NewNotFound("group")
	}

	if err := s.groups.DeleteWithMemberships(ctx, groupID); err != nil {
		return apperrors.NewPersistenceError(err)
	}

	s.log.Info("group deleted",
		slog.Int64("group_id", groupID),
		slog.Int64("admin_telegram_id", telegramID),
	)

	return nil
}

// ListForMember returns the groups the user belongs to.
func (s *Service) ListForMember(ctx context.Context, telegramID int64) ([]domain.Group, error) {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	groups, err := s.groups.ListByMember(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	return groups, nil
}

// ListAdministered returns the groups the user administers.
func (s *Service) ListAdministered(ctx context.Context, telegramID int64) ([]domain.Group, error) {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	groups, err := s.groups.ListByAdmin(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	return groups, nil
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
