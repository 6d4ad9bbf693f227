package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionLockKeyPattern = "lock:session:%d:%d"
	lockTTL               = 5 * time.Second
)

var (
	// ErrInvalidTransition indicates that a requested FSM transition is not allowed.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrSessionNotFound indicates that a session record does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionLocked indicates that a concurrent operation already holds the lock.
	ErrSessionLocked = errors.New("session is locked, try again later")
)

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe FSM transitions.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}

// Machine describes the operations supported by the session FSM controller.
type Machine interface {
	GetSession(ctx context.Context, userID, chatID int64) (*Session, error)
	SetSession(ctx context.Context, userID, chatID int64, state State, contextData map[string]interface{}) error
	TransitionTo(ctx context.Context, userID, chatID int64, newState State) error
	ClearSession(ctx context.Context, userID, chatID int64) error
	AllSessions(ctx context.Context) ([]*Session, error)
}

// machine is a concrete implementation of Machine backed by Storage and Redis locking.
type machine struct {
	storage     Storage
	log         *slog.Logger
	redisClient *redis.Client
}

// NewMachine creates a FSM controller using the provided storage backend
// and an optional redis client for distributed locking.
func NewMachine(storage Storage, log *slog.Logger, redisClient *redis.Client) Machine {
	if log == nil {
		log = slog.Default()
	}

	return &machine{
		storage:     storage,
		log:         log,
		redisClient: redisClient,
	}
}

// GetSession proxies to the underlying storage implementation.
func (m *machine) GetSession(ctx context.Context, userID, chatID int64) (*Session, error) {
	return m.storage.GetSession(ctx, userID, chatID)
}

// AllSessions returns every persisted session.
func (m *machine) AllSessions(ctx context.Context) ([]*Session, error) {
	return m.storage.AllSessions(ctx)
}

// SetSession composes a Session and persists it via storage under a lock.
func (m *machine) SetSession(ctx context.Context, userID, chatID int64, state State, contextData map[string]interface{}) error {
	if err := m.lock(ctx, userID, chatID); err != nil {
		return err
	}
	defer m.unlock(ctx, userID, chatID)

	return m.saveSession(ctx, userID, chatID, state, contextData)
}

// TransitionTo changes the state if the transition is allowed, guarded by a lock.
// A successful transition drops the session context, deliberately: dialog
// context belongs to a single step and must not leak into the next one.
func (m *machine) TransitionTo(ctx context.Context, userID, chatID int64, newState State) error {
	if err := m.lock(ctx, userID, chatID); err != nil {
		return err
	}
	defer m.unlock(ctx, userID, chatID)

	current := StateIdle

	stored, err := m.storage.GetSession(ctx, userID, chatID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			return err
		}
	} else if stored != nil {
		current = stored.CurrentState
	}

	if !IsTransitionAllowed(current, newState) {
		m.log.Warn("invalid state transition",
			"user_id", userID, "chat_id", chatID, "from", current, "to", newState)
		return ErrInvalidTransition
	}

	transitionRecorder(string(current), string(newState))

	return m.saveSession(ctx, userID, chatID, newState, nil)
}

// ClearSession removes the stored session while holding the lock.
func (m *machine) ClearSession(ctx context.Context, userID, chatID int64) error {
	if err := m.lock(ctx, userID, chatID); err != nil {
		return err
	}
	defer m.unlock(ctx, userID, chatID)

	return m.storage.ClearSession(ctx, userID, chatID)
}

func (m *machine) saveSession(ctx context.Context, userID, chatID int64, state State, contextData map[string]interface{}) error {
	session := &Session{
		UserID:       userID,
		ChatID:       chatID,
		CurrentState: state,
		Context:      contextData,
	}

	return m.storage.SetSession(ctx, userID, chatID, session)
}

func (m *machine) lock(ctx context.Context, userID, chatID int64) error {
	if m.redisClient == nil {
		return nil
	}

	key := fmt.Sprintf(sessionLockKeyPattern, userID, chatID)
	acquired, err := m.redisClient.SetNX(ctx, key, 1, lockTTL).Result()
	if err != nil {
		m.log.Error("failed to acquire session lock", "user_id", userID, "chat_id", chatID, "error", err)
		return err
	}

	if !acquired {
		m.log.Warn("session lock already held", "user_id", userID, "chat_id", chatID)
		return ErrSessionLocked
	}

	return nil
}

func (m *machine) unlock(ctx context.Context, userID, chatID int64) {
	if m.redisClient == nil {
		return
	}

	key := fmt.Sprintf(sessionLockKeyPattern, userID, chatID)
	if err := m.redisClient.Del(ctx, key).Err(); err != nil {
		m.log.Error("failed to release session lock", "user_id", userID, "chat_id", chatID, "error", err)
	}
}
