package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedisStorage_SetAndGet(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	storage := NewRedisStorage(client, testLogger(), time.Hour)

	ctx := context.Background()
	session := &Session{
		UserID:       123,
		ChatID:       123,
		CurrentState: StateAddLocationDescription,
		Context: map[string]interface{}{
			"description": "home",
		},
	}

	err := storage.SetSession(ctx, session.UserID, session.ChatID, session)
	assert.NoError(t, err)

	result, err := storage.GetSession(ctx, session.UserID, session.ChatID)
	assert.NoError(t, err)
	if assert.NotNil(t, result) {
		assert.Equal(t, session.UserID, result.UserID)
		assert.Equal(t, session.ChatID, result.ChatID)
		assert.Equal(t, session.CurrentState, result.CurrentState)
		assert.Equal(t, session.Context, result.Context)
	}
}

func TestRedisStorage_GetNotFound(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	storage := NewRedisStorage(client, testLogger(), time.Hour)

	session, err := storage.GetSession(context.Background(), 999, 999)
	assert.Nil(t, session)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStorage_ClearSession(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	storage := NewRedisStorage(client, testLogger(), time.Hour)

	ctx := context.Background()
	session := &Session{
		UserID:       456,
		ChatID:       457,
		CurrentState: StateAddGroupTitle,
		Context:      map[string]interface{}{"title": "Bike Club"},
	}

	err := storage.SetSession(ctx, session.UserID, session.ChatID, session)
	assert.NoError(t, err)

	err = storage.ClearSession(ctx, session.UserID, session.ChatID)
	assert.NoError(t, err)

	state, err := storage.GetSession(ctx, session.UserID, session.ChatID)
	assert.Nil(t, state)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStorage_AllSessions(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	storage := NewRedisStorage(client, testLogger(), time.Hour)

	ctx := context.Background()
	for _, id := range []int64{1, 2, 3} {
		session := &Session{UserID: id, ChatID: id, CurrentState: StateAddGroupTitle}
		assert.NoError(t, storage.SetSession(ctx, id, id, session))
	}

	sessions, err := storage.AllSessions(ctx)
	assert.NoError(t, err)
	assert.Len(t, sessions, 3)
}
