// Package state manages per-chat dialog sessions for the bot.
package state

import "context"

// Storage defines the persistence contract for dialog sessions.
type Storage interface {
	// GetSession returns the current session for the user in the chat.
	GetSession(ctx context.Context, userID, chatID int64) (*Session, error)
	// SetSession saves the provided session for the user in the chat.
	SetSession(ctx context.Context, userID, chatID int64, session *Session) error
	// ClearSession removes the session for the user in the chat.
	ClearSession(ctx context.Context, userID, chatID int64) error
	// AllSessions returns every stored session.
	AllSessions(ctx context.Context) ([]*Session, error)
}
