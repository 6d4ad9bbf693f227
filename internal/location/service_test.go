package location

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/geopin/geopin-bot/internal/domain"
	apperrors "github.com/geopin/geopin-bot/internal/errors"
	"github.com/geopin/geopin-bot/internal/repository"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := repository.NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	locations := repository.NewLocationRepository(db, log)
	users := repository.NewUserRepository(db, log)

	return NewService(locations, users, log), db
}

func seedUser(t *testing.T, db *gorm.DB, telegramID int64, firstName, username string) {
	t.Helper()
	require.NoError(t, db.Create(&domain.User{TelegramID: telegramID, FirstName: firstName, Username: username}).Error)
}

func TestService_Add(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seedUser(t, db, 42, "Ivan", "ivan")

	loc, err := svc.Add(ctx, 42, 55.7, 37.6, "home")
	require.NoError(t, err)
	require.Equal(t, "home", loc.Description)
	require.NotZero(t, loc.ID)

	listed, err := svc.ListForUser(ctx, 42)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.InDelta(t, 55.7, listed[0].Latitude, 1e-9)
}

func TestService_Add_Validation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seedUser(t, db, 42, "Ivan", "ivan")

	testCases := []struct {
		name        string
		telegramID  int64
		lat, lon    float64
		description string
		kind        apperrors.Kind
	}{
		{name: "nan latitude", telegramID: 42, lat: math.NaN(), lon: 37.6, description: "x", kind: apperrors.KindInvalidInput},
		{name: "infinite longitude", telegramID: 42, lat: 55.7, lon: math.Inf(1), description: "x", kind: apperrors.KindInvalidInput},
		{name: "latitude out of range", telegramID: 42, lat: 91, lon: 37.6, description: "x", kind: apperrors.KindInvalidInput},
		{name: "empty description", telegramID: 42, lat: 55.7, lon: 37.6, description: "  ", kind: apperrors.KindInvalidInput},
		{name: "unknown user", telegramID: 999, lat: 55.7, lon: 37.6, description: "x", kind: apperrors.KindNotFound},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tc.telegramID, tc.lat, tc.lon, tc.description)
			require.True(t, apperrors.IsKind(err, tc.kind), "got %v", err)
		})
	}
}

func TestService_Delete_OwnerScoped(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seedUser(t, db, 42, "Ivan", "ivan")
	seedUser(t, db, 43, "Petr", "petr")

	loc, err := svc.Add(ctx, 42, 55.7, 37.6, "home")
	require.NoError(t, err)

	// a stranger cannot delete it
	err = svc.Delete(ctx, loc.ID, 43)
	require.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	require.NoError(t, svc.Delete(ctx, loc.ID, 42))

	// second delete is NotFound
	err = svc.Delete(ctx, loc.ID, 42)
	require.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestService_MapData(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	seedUser(t, db, 42, "Ivan", "ivan")
	seedUser(t, db, 43, "Petr", "")

	_, err := svc.Add(ctx, 42, 55.7, 37.6, "home")
	require.NoError(t, err)
	_, err = svc.Add(ctx, 43, 59.9, 30.3, "office")
	require.NoError(t, err)

	points, err := svc.MapData(ctx)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, "Ivan", points[0].FirstName)
	require.Equal(t, "ivan", points[0].Username)
	require.Equal(t, "office", points[1].Description)
}
