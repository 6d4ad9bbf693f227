package handlers

import (
	"context"
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/geopin/geopin-bot/internal/state"
)

// NewCancelHandler resets the dialog state for /cancel.
func NewCancelHandler(fsm state.Machine, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c.Sender() == nil || c.Chat() == nil {
			log.Warn("cancel handler invoked without sender context")
			return nil
		}

		ctx := context.Background()
		userID := c.Sender().ID
		chatID := c.Chat().ID

		session, err := fsm.GetSession(ctx, userID, chatID)
		if err != nil {
			if errors.Is(err, state.ErrSessionNotFound) {
				return c.Send("Нет активного действия.")
			}
			return err
		}

		if session == nil || session.CurrentState == state.StateIdle {
			return c.Send("Нет активного действия.")
		}

		if err := fsm.ClearSession(ctx, userID, chatID); err != nil {
			log.Error("failed to clear session",
				slog.Int64("user_id", userID), slog.Int64("chat_id", chatID), slog.Any("error", err))
			return err
		}

		return c.Send("❌ Действие отменено.")
	}
}
