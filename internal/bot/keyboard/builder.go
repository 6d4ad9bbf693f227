// Package keyboard builds the inline keyboards shown by the bot.
package keyboard

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/geopin/geopin-bot/internal/training"
)

// Builder creates inline keyboards based on the user's onboarding stage.
type Builder struct {
	mapURL string
	log    *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(mapURL string, log *slog.Logger) *Builder {
	return &Builder{mapURL: mapURL, log: log}
}

// MainMenu builds the main menu for the given onboarding stage. During
// training only the button for the next step is shown; after graduation
// the full menu appears.
func (b *Builder) MainMenu(stage training.Stage) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}

	switch stage {
	case training.StageNew:
		markup.InlineKeyboard = [][]telebot.InlineButton{
			{{Text: "Открыть карту 🌍", URL: b.mapURL}},
			{{Text: "Карту посмотрел, дальше ▶️", Data: "training_start_map"}},
		}
	case training.StageMapShown:
		markup.InlineKeyboard = [][]telebot.InlineButton{
			{{Text: "Добавить локацию ➕", Data: "training_add_location"}},
		}
	case training.StageAddPrompted:
		markup.InlineKeyboard = [][]telebot.InlineButton{
			{{Text: "Добавить новую локацию", Data: "add_location"}},
		}
	case training.StageLocationSaved:
		markup.InlineKeyboard = [][]telebot.InlineButton{
			{{Text: "Список моих локаций 📍", Data: "training_list_locations"}},
		}
	default:
		markup.InlineKeyboard = [][]telebot.InlineButton{
			{{Text: "Мои группы", Data: "my_groups"}},
			{{Text: "Мои локации", Data: "locations"}},
			{{Text: "Администратор групп", Data: "admin_groups"}},
			{{Text: "Открыть карту 🌍", URL: b.mapURL}},
		}
	}

	return markup
}

// LocationActions builds the locations submenu.
func (b *Builder) LocationActions() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{{Text: "Список моих локаций", Data: "list_locations"}},
		{{Text: "Добавить новую локацию", Data: "add_location"}},
	}
	return markup
}

// LocationItem builds the per-location actions keyboard.
func (b *Builder) LocationItem(locationID int64) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{{Text: "Удалить локацию", Data: fmt.Sprintf("delete_location_%d", locationID)}},
	}
	return markup
}

// AdminGroupsMenu builds the group administration submenu.
func (b *Builder) AdminGroupsMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{{Text: "Список моих групп", Data: "list_managed_groups"}},
		{{Text: "Добавить новую группу", Data: "add_manage_group"}},
	}
	return markup
}

// MemberGroupItem builds the keyboard attached to a group the user belongs to.
func (b *Builder) MemberGroupItem(groupID int64) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{{Text: "Выйти из группы", Data: fmt.Sprintf("leave_group_%d", groupID)}},
	}
	return markup
}

// AdminGroupItem builds the keyboard attached to a group the user administers.
func (b *Builder) AdminGroupItem(groupID int64) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{{Text: "Удалить группу", Data: fmt.Sprintf("delete_group_%d", groupID)}},
	}
	return markup
}
