package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/geopin/geopin-bot/internal/apiclient"
	"github.com/geopin/geopin-bot/internal/bot/keyboard"
	"github.com/geopin/geopin-bot/internal/training"
)

// sendMainMenu shows the stage-appropriate onboarding prompt with the
// matching menu keyboard.
func sendMainMenu(c telebot.Context, kb *keyboard.Builder, stage training.Stage) error {
	firstName := ""
	if c.Sender() != nil {
		firstName = c.Sender().FirstName
	}

	return c.Send(training.MainMessage(stage, firstName), kb.MainMenu(stage))
}

// currentStage registers the user if needed and returns the stored
// onboarding stage.
func currentStage(ctx context.Context, api *apiclient.Client, c telebot.Context) (training.Stage, error) {
	sender := c.Sender()
	if sender == nil {
		return training.StageNew, nil
	}

	result, err := api.RegisterUser(ctx, sender.ID, sender.Username, sender.FirstName)
	if err != nil {
		return training.StageNew, err
	}

	return training.Clamp(result.TrainingStage), nil
}

// trailingID extracts the numeric suffix from callback data such as
// "delete_location_15".
func trailingID(data string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(data), "_")
	if len(parts) == 0 {
		return 0, fmt.Errorf("callback data %q has no id suffix", data)
	}

	id, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("callback data %q has no id suffix", data)
	}

	return id, nil
}

func formatLocation(loc apiclient.Location) string {
	return fmt.Sprintf("📍 %s\nКоординаты: (%g, %g)", loc.Description, loc.Latitude, loc.Longitude)
}
