package handlers

import (
	"context"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/geopin/geopin-bot/internal/apiclient"
	"github.com/geopin/geopin-bot/internal/bot/keyboard"
	"github.com/geopin/geopin-bot/internal/state"
	"github.com/geopin/geopin-bot/internal/training"
)

const (
	descriptionContextKey = "description"

	sendCoordinatesPrompt = "📍 Теперь отправьте геопозицию через 📎 " +
		"(кнопка 'Прикрепить' -> 'Геопозиция' или 'Место')\n" +
		"или отмените добавление /cancel"

	wrongContentPrompt = "❌ Вы находитесь в режиме добавления локации.\n" +
		"Пожалуйста, отправьте геопозицию через 📎 " +
		"(кнопка 'Прикрепить' -> 'Геопозиция' или 'Место')\n" +
		"Или отправьте /cancel для отмены"
)

// HandleLocationsMenu shows the locations submenu.
func HandleLocationsMenu(kb *keyboard.Builder) CallbackHandler {
	return func(c telebot.Context) error {
		_ = c.Respond()
		return c.Edit(withMainMenuHint("Что вы хотите сделать с локациями?"), kb.LocationActions())
	}
}

// HandleListLocations lists every location the user has saved.
func HandleListLocations(api *apiclient.Client, kb *keyboard.Builder, log *slog.Logger) CallbackHandler {
	return func(c telebot.Context) error {
		if c.Sender() == nil {
			return nil
		}
		_ = c.Respond()

		ctx := context.Background()

		locations, err := api.UserLocations(ctx, c.Sender().ID)
		if err != nil {
			return err
		}

		if len(locations) == 0 {
			return c.Edit(withMainMenuHint("У вас нет сохранённых локаций."))
		}

		if err := c.Edit("Ваши локации:"); err != nil {
			return err
		}
		for _, loc := range locations {
			if err := c.Send(formatLocation(loc), kb.LocationItem(loc.ID)); err != nil {
				return err
			}
		}

		return c.Send(mainMenuHint)
	}
}

// HandleDeleteLocation removes one of the user's locations.
func HandleDeleteLocation(api *apiclient.Client, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c.Sender() == nil || c.Callback() == nil {
			return nil
		}
		_ = c.Respond()

		locationID, err := trailingID(c.Callback().Data)
		if err != nil {
			log.Warn("malformed delete_location callback", slog.String("data", c.Callback().Data))
			return nil
		}

		ctx := context.Background()
		if err := api.DeleteLocation(ctx, locationID, c.Sender().ID); err != nil {
			return err
		}

		return c.Edit(withMainMenuHint("Локация успешно удалена."))
	}
}

// HandleAddLocationStart begins the add-location dialog.
func HandleAddLocationStart(fsm state.Machine) CallbackHandler {
	return func(c telebot.Context) error {
		if c.Sender() == nil || c.Chat() == nil {
			return nil
		}
		_ = c.Respond()

		ctx := context.Background()
		if err := fsm.SetSession(ctx, c.Sender().ID, c.Chat().ID, state.StateAddLocationDescription, nil); err != nil {
			return err
		}

		return c.Edit("Введите описание для новой локации\nили отмените добавление /cancel")
	}
}

// NewDescriptionStateHandler stores the entered description and asks for
// coordinates.
func NewDescriptionStateHandler(fsm state.Machine, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c.Sender() == nil || c.Chat() == nil {
			return nil
		}

		description := strings.TrimSpace(c.Text())
		if description == "" {
			return c.Send("Описание не может быть пустым. Введите описание для новой локации\nили отмените добавление /cancel")
		}

		ctx := context.Background()
		err := fsm.SetSession(ctx, c.Sender().ID, c.Chat().ID, state.StateAddLocationCoordinates,
			map[string]interface{}{descriptionContextKey: description})
		if err != nil {
			return err
		}

		return c.Send(sendCoordinatesPrompt)
	}
}

// NewCoordinatesStateHandler accepts a geo pin or venue, saves the
// location through the API, and closes the dialog. Any other content
// re-prompts and keeps the dialog open.
func NewCoordinatesStateHandler(api *apiclient.Client, fsm state.Machine, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		msg := c.Message()
		if msg == nil || c.Sender() == nil || c.Chat() == nil {
			return nil
		}

		var (
			latitude, longitude float64
			venueParts          []string
		)

		switch {
		case msg.Location != nil:
			latitude = float64(msg.Location.Lat)
			longitude = float64(msg.Location.Lng)
		case msg.Venue != nil:
			latitude = float64(msg.Venue.Location.Lat)
			longitude = float64(msg.Venue.Location.Lng)
			if msg.Venue.Title != "" {
				venueParts = append(venueParts, msg.Venue.Title)
			}
			if msg.Venue.Address != "" {
				venueParts = append(venueParts, msg.Venue.Address)
			}
		default:
			log.Warn("wrong content type in coordinates state",
				slog.Int64("user_id", c.Sender().ID))
			return c.Send(wrongContentPrompt)
		}

		ctx := context.Background()
		userID := c.Sender().ID
		chatID := c.Chat().ID

		description := ""
		if session, err := fsm.GetSession(ctx, userID, chatID); err == nil && session != nil {
			if stored, ok := session.Context[descriptionContextKey].(string); ok {
				description = stored
			}
		}
		if len(venueParts) > 0 {
			venueInfo := "(" + strings.Join(venueParts, ", ") + ")"
			if description != "" {
				description = description + " " + venueInfo
			} else {
				description = venueInfo
			}
		}

		if _, err := api.AddLocation(ctx, userID, latitude, longitude, description); err != nil {
			return err
		}

		// progress onboarding; losing this update is not worth failing the save
		if _, err := api.UpdateTrainingStage(ctx, userID, int(training.StageLocationSaved), false); err != nil {
			log.Error("failed to update training stage after saving location",
				slog.Int64("user_id", userID), slog.Any("error", err))
		}

		if err := fsm.ClearSession(ctx, userID, chatID); err != nil {
			log.Error("failed to clear session after saving location",
				slog.Int64("user_id", userID), slog.Int64("chat_id", chatID), slog.Any("error", err))
		}

		return c.Send(withMainMenuHint("Локация успешно добавлена ✅"))
	}
}
