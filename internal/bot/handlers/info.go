package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/geopin/geopin-bot/internal/apiclient"
	"github.com/geopin/geopin-bot/internal/bot/keyboard"
)

// NewAboutHandler handles /about.
func NewAboutHandler() Handler {
	return func(c telebot.Context) error {
		return c.Send(aboutMessage)
	}
}

// NewHelpHandler handles /help.
func NewHelpHandler() Handler {
	return func(c telebot.Context) error {
		return c.Send(helpMessage)
	}
}

// NewMainMenuHandler handles /main, showing the stage-appropriate menu.
func NewMainMenuHandler(api *apiclient.Client, kb *keyboard.Builder, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c.Sender() == nil {
			return nil
		}

		stage, err := currentStage(context.Background(), api, c)
		if err != nil {
			return err
		}

		return sendMainMenu(c, kb, stage)
	}
}
