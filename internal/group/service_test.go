package group

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/geopin/geopin-bot/internal/domain"
	apperrors "github.com/geopin/geopin-bot/internal/errors"
	"github.com/geopin/geopin-bot/internal/repository"
)

func newTestService(t *testing.T) (*Service, repository.GroupRepository, *gorm.DB) {
	t.Helper()

	db, err := repository.NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	groups := repository.NewGroupRepository(db, log)
	users := repository.NewUserRepository(db, log)

	return NewService(groups, users, log), groups, db
}

func seedUser(t *testing.T, db *gorm.DB, telegramID int64) *domain.User {
	t.Helper()

	user := &domain.User{TelegramID: telegramID, FirstName: fmt.Sprintf("user%d", telegramID)}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestService_Create(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	seedUser(t, db, 100)
	seedUser(t, db, 200)

	created, err := svc.Create(ctx, 100, "Bike Club")
	require.NoError(t, err)
	require.Equal(t, "bike-club", created.GroupLink)

	// a second group with the same title gets a suffixed invite code
	second, err := svc.Create(ctx, 200, "Bike Club")
	require.NoError(t, err)
	require.Equal(t, "bike-club-1", second.GroupLink)
}

func TestService_Create_Validation(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	seedUser(t, db, 100)

	testCases := []struct {
		name       string
		telegramID int64
		title      string
	}{
		{name: "empty title", telegramID: 100, title: "   "},
		{name: "punctuation only title", telegramID: 100, title: "!!!"},
		{name: "unknown admin", telegramID: 999, title: "Bike Club"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.telegramID, tc.title)
			require.Error(t, err)
		})
	}
}

func TestService_Join_Idempotent(t *testing.T) {
	svc, groups, db := newTestService(t)
	ctx := context.Background()
	admin := seedUser(t, db, 100)
	member := seedUser(t, db, 200)
	_ = admin

	created, err := svc.Create(ctx, 100, "Hiking")
	require.NoError(t, err)

	first, err := svc.Join(ctx, created.GroupLink, 200)
	require.NoError(t, err)
	require.False(t, first.AlreadyMember)

	second, err := svc.Join(ctx, created.GroupLink, 200)
	require.NoError(t, err)
	require.True(t, second.AlreadyMember)

	count, err := groups.CountMembers(ctx, created.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	exists, err := groups.MemberExists(ctx, created.ID, member.ID)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestService_Join_UnknownCode(t *testing.T) {
	svc, groups, db := newTestService(t)
	ctx := context.Background()
	seedUser(t, db, 200)

	_, err := svc.Join(ctx, "no-such-group", 200)
	require.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	var memberships int64
	require.NoError(t, db.Model(&domain.UserGroup{}).Count(&memberships).Error)
	require.Zero(t, memberships)
	_ = groups
}

func TestService_Delete_CascadesMemberships(t *testing.T) {
	svc, groups, db := newTestService(t)
	ctx := context.Background()
	seedUser(t, db, 100)
	seedUser(t, db, 200)
	seedUser(t, db, 300)

	created, err := svc.Create(ctx, 100, "Climbing")
	require.NoError(t, err)

	for _, id := range []int64{200, 300} {
		_, err := svc.Join(ctx, created.GroupLink, id)
		require.NoError(t, err)
	}

	require.NoError(t, svc.Delete(ctx, created.ID, 100))

	_, err = groups.FindByID(ctx, created.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var memberships int64
	require.NoError(t, db.Model(&domain.UserGroup{}).Where("group_id = ?", created.ID).Count(&memberships).Error)
	require.Zero(t, memberships)

	// former members no longer list the group
	forMember, err := svc.ListForMember(ctx, 200)
	require.NoError(t, err)
	require.Empty(t, forMember)
}

func TestService_Delete_NonAdminMasked(t *testing.T) {
	svc, groups, db := newTestService(t)
	ctx := context.Background()
	seedUser(t, db, 100)
	seedUser(t, db, 200)

	created, err := svc.Create(ctx, 100, "Running")
	require.NoError(t, err)
	_, err = svc.Join(ctx, created.GroupLink, 200)
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID, 200)
	require.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	// group and memberships are untouched
	_, err = groups.FindByID(ctx, created.ID)
	require.NoError(t, err)

	count, err := groups.CountMembers(ctx, created.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestService_Leave(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	seedUser(t, db, 100)
	seedUser(t, db, 200)

	created, err := svc.Create(ctx, 100, "Swimming")
	require.NoError(t, err)
	_, err = svc.Join(ctx, created.GroupLink, 200)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(ctx, created.ID, 200))

	// leaving twice fails with NotFound
	err = svc.Leave(ctx, created.ID, 200)
	require.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestService_CheckInvite(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	seedUser(t, db, 100)

	created, err := svc.Create(ctx, 100, "Chess Club")
	require.NoError(t, err)

	found, err := svc.CheckInvite(ctx, created.GroupLink)
	require.NoError(t, err)
	require.Equal(t, "Chess Club", found.Title)

	_, err = svc.CheckInvite(ctx, "stale-code")
	require.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestService_ListAdministered(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()
	seedUser(t, db, 100)
	seedUser(t, db, 200)

	for _, title := range []string{"Alpha", "Beta"} {
		_, err := svc.Create(ctx, 100, title)
		require.NoError(t, err)
	}

	administered, err := svc.ListAdministered(ctx, 100)
	require.NoError(t, err)
	require.Len(t, administered, 2)

	other, err := svc.ListAdministered(ctx, 200)
	require.NoError(t, err)
	require.Empty(t, other)
}
