package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPattern  = "session:%d:%d"
	sessionScanPattern = "session:*"
)

// RedisStorage persists dialog sessions in Redis.
type RedisStorage struct {
	client *redis.Client
	log    *slog.Logger
	ttl    time.Duration
}

// NewRedisStorage initializes a Redis-backed Storage implementation.
// Sessions expire after ttl without activity.
func NewRedisStorage(client *redis.Client, log *slog.Logger, ttl time.Duration) Storage {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &RedisStorage{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

// GetSession returns the stored session or ErrSessionNotFound when absent.
func (s *RedisStorage) GetSession(ctx context.Context, userID, chatID int64) (*Session, error) {
	key := redisSessionKey(userID, chatID)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}

		s.log.Error("failed to get session from redis", "user_id", userID, "chat_id", chatID, "error", err)
		return nil, err
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		s.log.Error("failed to decode session", "user_id", userID, "chat_id", chatID, "error", err)
		return nil, err
	}

	return &session, nil
}

// SetSession saves the provided session, refreshing its TTL.
func (s *RedisStorage) SetSession(ctx context.Context, userID, chatID int64, session *Session) error {
	session.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(session)
	if err != nil {
		s.log.Error("failed to encode session", "user_id", userID, "chat_id", chatID, "error", err)
		return err
	}

	key := redisSessionKey(userID, chatID)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.log.Error("failed to save session in redis", "user_id", userID, "chat_id", chatID, "error", err)
		return err
	}

	return nil
}

// ClearSession removes the stored session for the user in the chat.
func (s *RedisStorage) ClearSession(ctx context.Context, userID, chatID int64) error {
	key := redisSessionKey(userID, chatID)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.Error("failed to clear session", "user_id", userID, "chat_id", chatID, "error", err)
		return err
	}

	return nil
}

// AllSessions retrieves every stored session by scanning Redis keys.
func (s *RedisStorage) AllSessions(ctx context.Context) ([]*Session, error) {
	var (
		cursor uint64
		result []*Session
	)

	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, sessionScanPattern, 100).Result()
		if err != nil {
			s.log.Error("failed to scan sessions", "error", err)
			return nil, err
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}

				s.log.Error("failed to fetch session", "key", key, "error", err)
				return nil, err
			}

			var session Session
			if err := json.Unmarshal([]byte(data), &session); err != nil {
				s.log.Error("failed to decode session", "key", key, "error", err)
				continue
			}

			copied := session
			result = append(result, &copied)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return result, nil
}

func redisSessionKey(userID, chatID int64) string {
	return fmt.Sprintf(sessionKeyPattern, userID, chatID)
}
