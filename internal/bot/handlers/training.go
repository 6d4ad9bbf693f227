package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/geopin/geopin-bot/internal/apiclient"
	"github.com/geopin/geopin-bot/internal/bot/keyboard"
	"github.com/geopin/geopin-bot/internal/training"
)

// NewSkipTrainingHandler jumps the user straight to the end of onboarding.
func NewSkipTrainingHandler(api *apiclient.Client, kb *keyboard.Builder, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		if c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		stage, err := api.UpdateTrainingStage(ctx, c.Sender().ID, int(training.StageFinal), true)
		if err != nil {
			return err
		}

		msg := "Отлично, как только у нас появится что-то новое, я дам тебе знать.\n" +
			"Ты всегда можешь пройти обучение заново /repeat_training"
		if err := c.Send(msg); err != nil {
			return err
		}

		return sendMainMenu(c, kb, training.Clamp(stage))
	}
}

// NewRepeatTrainingHandler restarts onboarding from the beginning.
func NewRepeatTrainingHandler(api *apiclient.Client, kb *keyboard.Builder, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		if c.Sender() == nil {
			return nil
		}

		ctx := context.Background()
		stage, err := api.UpdateTrainingStage(ctx, c.Sender().ID, int(training.StageNew), true)
		if err != nil {
			return err
		}

		msg := "Отлично, начнём сначала.\n" +
			"Ты всегда можешь пропустить обучение /skip_training"
		if err := c.Send(msg); err != nil {
			return err
		}

		return sendMainMenu(c, kb, training.Clamp(stage))
	}
}

// HandleTrainingStartMap advances onboarding after the user has opened the map.
func HandleTrainingStartMap(api *apiclient.Client, kb *keyboard.Builder, log *slog.Logger) CallbackHandler {
	return func(c telebot.Context) error {
		if c.Sender() == nil {
			return nil
		}
		_ = c.Respond()

		ctx := context.Background()
		stage, err := api.UpdateTrainingStage(ctx, c.Sender().ID, int(training.StageMapShown), false)
		if err != nil {
			return err
		}

		return sendMainMenu(c, kb, training.Clamp(stage))
	}
}

// HandleTrainingAddLocation advances onboarding to the add-location prompt.
func HandleTrainingAddLocation(api *apiclient.Client, kb *keyboard.Builder, log *slog.Logger) CallbackHandler {
	return func(c telebot.Context) error {
		if c.Sender() == nil {
			return nil
		}
		_ = c.Respond()

		ctx := context.Background()
		stage, err := api.UpdateTrainingStage(ctx, c.Sender().ID, int(training.StageAddPrompted), false)
		if err != nil {
			return err
		}

		return sendMainMenu(c, kb, training.Clamp(stage))
	}
}

// HandleTrainingListLocations shows the user's saved locations and
// graduates them from onboarding. With no locations yet, it loops back to
// the add-location step.
func HandleTrainingListLocations(api *apiclient.Client, kb *keyboard.Builder, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c.Sender() == nil {
			return nil
		}
		_ = c.Respond()

		ctx := context.Background()
		userID := c.Sender().ID

		locations, err := api.UserLocations(ctx, userID)
		if err != nil {
			return err
		}

		if len(locations) == 0 {
			if err := c.Send("У вас нет сохранённых локаций. Давай добавим точку"); err != nil {
				return err
			}
			return HandleTrainingAddLocation(api, kb, log)(c)
		}

		if err := c.Send("Твои локации:"); err != nil {
			return err
		}
		for _, loc := range locations {
			if err := c.Send(formatLocation(loc), kb.LocationItem(loc.ID)); err != nil {
				return err
			}
		}

		stage, err := api.UpdateTrainingStage(ctx, userID, int(training.StageFinal), false)
		if err != nil {
			return err
		}

		return sendMainMenu(c, kb, training.Clamp(stage))
	}
}
