package state

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type sessionKey struct {
	userID int64
	chatID int64
}

// MemoryStorage keeps dialog sessions in process memory. It is the
// fallback when Redis is disabled and is also used in tests.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*Session
	log      *slog.Logger
}

// NewMemoryStorage initializes an in-memory Storage implementation.
func NewMemoryStorage(log *slog.Logger) *MemoryStorage {
	if log == nil {
		log = slog.Default()
	}

	return &MemoryStorage{
		sessions: make(map[sessionKey]*Session),
		log:      log,
	}
}

func (s *MemoryStorage) GetSession(_ context.Context, userID, chatID int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionKey{userID: userID, chatID: chatID}]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := *session
	return &copied, nil
}

func (s *MemoryStorage) SetSession(_ context.Context, userID, chatID int64, session *Session) error {
	session.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.sessions[sessionKey{userID: userID, chatID: chatID}] = &copied

	return nil
}

func (s *MemoryStorage) ClearSession(_ context.Context, userID, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionKey{userID: userID, chatID: chatID})

	return nil
}

func (s *MemoryStorage) AllSessions(_ context.Context) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		copied := *session
		result = append(result, &copied)
	}

	return result, nil
}
