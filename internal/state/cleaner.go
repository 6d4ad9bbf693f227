package state

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner removes stale dialog sessions on a schedule. Redis already
// expires its keys, so this mainly matters for the in-memory backend and
// for sessions abandoned mid-dialog.
type Cleaner struct {
	storage  Storage
	log      *slog.Logger
	ttl      time.Duration
	interval time.Duration
}

// NewCleaner constructs a Cleaner instance.
func NewCleaner(storage Storage, log *slog.Logger, ttl, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		storage:  storage,
		log:      log,
		ttl:      ttl,
		interval: interval,
	}
}

// Run starts the cleanup loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.storage == nil {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			reason := ctx.Err()
			if reason != nil {
				c.log.Info("session cleaner stopped", slog.String("reason", reason.Error()))
			} else {
				c.log.Info("session cleaner stopped")
			}
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *Cleaner) cleanup(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	sessions, err := c.storage.AllSessions(ctx)
	if err != nil {
		c.log.Error("session cleaner failed to list sessions", slog.Any("error", err))
		return
	}

	for _, session := range sessions {
		if ctx.Err() != nil {
			return
		}

		if time.Since(session.UpdatedAt) <= c.ttl {
			continue
		}

		if err := c.storage.ClearSession(ctx, session.UserID, session.ChatID); err != nil {
			c.log.Error("session cleaner failed to clear session",
				slog.Int64("user_id", session.UserID),
				slog.Int64("chat_id", session.ChatID),
				slog.Any("error", err))
			continue
		}

		c.log.Info("stale session cleared",
			slog.Int64("user_id", session.UserID),
			slog.Int64("chat_id", session.ChatID),
			slog.String("state", string(session.CurrentState)))
	}
}
