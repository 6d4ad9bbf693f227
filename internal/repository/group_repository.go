package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/geopin/geopin-bot/internal/domain"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// GroupRepository defines persistence operations for groups and memberships.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	FindByLink(ctx context.Context, link string) (*domain.Group, error)
	FindByID(ctx context.Context, id int64) (*domain.Group, error)
	SlugExists(ctx context.Context, link string) (bool, error)
	DeleteWithMemberships(ctx context.Context, groupID int64) error
	ListByMember(ctx context.Context, userID int64) ([]domain.Group, error)
	ListByAdmin(ctx context.Context, userID int64) ([]domain.Group, error)

	AddMember(ctx context.Context, groupID, userID int64) error
	RemoveMember(ctx context.Context, groupID, userID int64) (bool, error)
	MemberExists(ctx context.Context, groupID, userID int64) (bool, error)
	CountMembers(ctx context.Context, groupID int64) (int64, error)
}

type groupRepository struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewGroupRepository creates a SQLite-backed group repository.
func NewGroupRepository(db *gorm.DB, log *slog.Logger) GroupRepository {
	return &groupRepository{
		db:  db,
		log: log,
	}
}

// Create persists a new group. ErrDuplicate is returned when the invite code
// is already taken, so the caller can regenerate and retry.
func (r *groupRepository) Create(ctx context.Context, group *domain.Group) error {
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}

		if r.log != nil {
			r.log.Error("failed to create group", slog.String("group_link", group.GroupLink), slog.Any("error", err))
		}
		return fmt.Errorf("insert group: %w", err)
	}

	return nil
}

// FindByLink retrieves a group by its invite code.
func (r *groupRepository) FindByLink(ctx context.Context, link string) (*domain.Group, error) {
	var group domain.Group
	if err := r.db.WithContext(ctx).Where("group_link = ?", link).First(&group).Error; err != nil {
		return nil, err
	}

	return &group, nil
}

// FindByID retrieves a group by its primary key.
func (r *groupRepository) FindByID(ctx context.Context, id int64) (*domain.Group, error) {
	var group domain.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}

	return &group, nil
}

// SlugExists reports whether an invite code is already in use.
func (r *groupRepository) SlugExists(ctx context.Context, link string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Group{}).Where("group_link = ?", link).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count group links: %w", err)
	}

	return count > 0, nil
}

// DeleteWithMemberships removes the group and all its membership rows atomically.
func (r *groupRepository) DeleteWithMemberships(ctx context.Context, groupID int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&domain.UserGroup{}).Error; err != nil {
			return err
		}

		return tx.Delete(&domain.Group{}, groupID).Error
	})
	if err != nil {
		if r.log != nil {
			r.log.Error("failed to delete group", slog.Int64("group_id", groupID), slog.Any("error", err))
		}
		return fmt.Errorf("delete group: %w", err)
	}

	return nil
}

// ListByMember returns every group the user belongs to.
func (r *groupRepository) ListByMember(ctx context.Context, userID int64) ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN user_groups ON user_groups.group_id = groups.id").
		Where("user_groups.user_id = ?", userID).
		Order("groups.id").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("list member groups: %w", err)
	}

	return groups, nil
}

// ListByAdmin returns every group administered by the user.
func (r *groupRepository) ListByAdmin(ctx context.Context, userID int64) ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.WithContext(ctx).
		Where("admin_user_id = ?", userID).
		Order("id").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("list admin groups: %w", err)
	}

	return groups, nil
}

// AddMember inserts a membership row. The uniqueness constraint on
// (group_id, user_id) is the backstop for check-then-insert races;
// a conflict surfaces as ErrDuplicate.
func (r *groupRepository) AddMember(ctx context.Context, groupID, userID int64) error {
	membership := domain.UserGroup{GroupID: groupID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}

		if r.log != nil {
			r.log.Error("failed to add member", slog.Int64("group_id", groupID), slog.Int64("user_id", userID), slog.Any("error", err))
		}
		return fmt.Errorf("insert membership: %w", err)
	}

	return nil
}

// RemoveMember deletes a membership row, reporting whether one existed.
func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&domain.UserGroup{})
	if result.Error != nil {
		return false, fmt.Errorf("delete membership: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// MemberExists reports whether the user already belongs to the group.
func (r *groupRepository) MemberExists(ctx context.Context, groupID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserGroup{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count memberships: %w", err)
	}

	return count > 0, nil
}

// CountMembers returns the number of membership rows for the group.
func (r *groupRepository) CountMembers(ctx context.Context, groupID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.UserGroup{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}

	return count, nil
}
