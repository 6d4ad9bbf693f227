package handlers

import (
	"context"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/geopin/geopin-bot/internal/apiclient"
	"github.com/geopin/geopin-bot/internal/bot/keyboard"
	apperrors "github.com/geopin/geopin-bot/internal/errors"
	"github.com/geopin/geopin-bot/internal/training"
)

const joinPayloadPrefix = "join_"

// NewStartHandler handles /start, including the join_<code> deep link
// produced by group invite links.
func NewStartHandler(api *apiclient.Client, kb *keyboard.Builder, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		sender := c.Sender()
		if sender == nil {
			log.Warn("start handler invoked without sender")
			return nil
		}

		ctx := context.Background()

		result, err := api.RegisterUser(ctx, sender.ID, sender.Username, sender.FirstName)
		if err != nil {
			return err
		}
		if result.Created {
			log.Info("registered new user", slog.Int64("telegram_id", sender.ID))
		}

		stage := training.Clamp(result.TrainingStage)

		payload := ""
		if msg := c.Message(); msg != nil {
			payload = strings.TrimSpace(msg.Payload)
		}

		if strings.HasPrefix(payload, joinPayloadPrefix) {
			inviteCode := strings.TrimPrefix(payload, joinPayloadPrefix)
			return handleJoinLink(ctx, c, api, kb, inviteCode, stage, log)
		}

		if err := c.Send(welcomeMessage(sender.FirstName)); err != nil {
			return err
		}

		return sendMainMenu(c, kb, stage)
	}
}

func handleJoinLink(ctx context.Context, c telebot.Context, api *apiclient.Client, kb *keyboard.Builder, inviteCode string, stage training.Stage, log *slog.Logger) error {
	log.Info("join link used",
		slog.Int64("telegram_id", c.Sender().ID), slog.String("invite_code", inviteCode))

	if _, err := api.CheckInvite(ctx, inviteCode); err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return c.Send("Эта ссылка недействительна или устарела.")
		}
		return err
	}

	result, err := api.JoinGroup(ctx, inviteCode, c.Sender().ID)
	if err != nil {
		return err
	}

	if err := c.Send(result.Message); err != nil {
		return err
	}

	return sendMainMenu(c, kb, stage)
}
