package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanerRemovesStaleSessions(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage(testLogger())

	stale := &Session{UserID: 1, ChatID: 1, CurrentState: StateAddLocationDescription}
	require.NoError(t, storage.SetSession(ctx, 1, 1, stale))

	// backdate the stale session past the TTL
	storage.mu.Lock()
	storage.sessions[sessionKey{userID: 1, chatID: 1}].UpdatedAt = time.Now().Add(-2 * time.Hour)
	storage.mu.Unlock()

	fresh := &Session{UserID: 2, ChatID: 2, CurrentState: StateAddGroupTitle}
	require.NoError(t, storage.SetSession(ctx, 2, 2, fresh))

	cleaner := NewCleaner(storage, testLogger(), time.Hour, time.Minute)
	cleaner.cleanup(ctx)

	_, err := storage.GetSession(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	kept, err := storage.GetSession(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, StateAddGroupTitle, kept.CurrentState)
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage(testLogger())

	session := &Session{
		UserID:       5,
		ChatID:       6,
		CurrentState: StateAddLocationCoordinates,
		Context:      map[string]interface{}{"description": "park"},
	}
	require.NoError(t, storage.SetSession(ctx, 5, 6, session))

	got, err := storage.GetSession(ctx, 5, 6)
	require.NoError(t, err)
	assert.Equal(t, StateAddLocationCoordinates, got.CurrentState)
	assert.Equal(t, "park", got.Context["description"])
	assert.False(t, got.UpdatedAt.IsZero())

	// sessions are chat-scoped
	_, err = storage.GetSession(ctx, 5, 7)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, storage.ClearSession(ctx, 5, 6))
	_, err = storage.GetSession(ctx, 5, 6)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
