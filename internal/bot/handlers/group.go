package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/geopin/geopin-bot/internal/apiclient"
	"github.com/geopin/geopin-bot/internal/bot/keyboard"
	"github.com/geopin/geopin-bot/internal/state"
)

// inviteLink renders the deep link that joins the group when opened.
func inviteLink(botName, groupLink string) string {
	return fmt.Sprintf("https://t.me/%s?start=join_%s", botName, groupLink)
}

// HandleMyGroups lists the groups the user belongs to.
func HandleMyGroups(api *apiclient.Client, kb *keyboard.Builder, log *slog.Logger) CallbackHandler {
	return func(c telebot.Context) error {
		if c.Sender() == nil {
			return nil
		}
		_ = c.Respond()

		ctx := context.Background()

		groups, err := api.UserGroups(ctx, c.Sender().ID)
		if err != nil {
			return err
		}

		if len(groups) == 0 {
			return c.Edit(withMainMenuHint(
				"Вы не участвуете ни в одной группе. " +
					"Попросите ссылку на вступление у администратора группы."))
		}

		if err := c.Edit("Ваши группы:"); err != nil {
			return err
		}
		for _, group := range groups {
			text := fmt.Sprintf("📌 Группа: %s", group.Title)
			if err := c.Send(text, kb.MemberGroupItem(group.ID)); err != nil {
				return err
			}
		}

		return c.Send(mainMenuHint)
	}
}

// HandleLeaveGroup removes the user from a group.
func HandleLeaveGroup(api *apiclient.Client, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c.Sender() == nil || c.Callback() == nil {
			return nil
		}
		_ = c.Respond()

		groupID, err := trailingID(c.Callback().Data)
		if err != nil {
			log.Warn("malformed leave_group callback", slog.String("data", c.Callback().Data))
			return nil
		}

		ctx := context.Background()
		if err := api.LeaveGroup(ctx, groupID, c.Sender().ID); err != nil {
			return err
		}

		return c.Edit(withMainMenuHint("Вы покинули группу."))
	}
}

// HandleAdminGroups shows the group administration submenu.
func HandleAdminGroups(kb *keyboard.Builder) CallbackHandler {
	return func(c telebot.Context) error {
		_ = c.Respond()
		return c.Edit("Выберите действие:", kb.AdminGroupsMenu())
	}
}

// HandleListManagedGroups lists the groups the user administers, with
// their invite links.
func HandleListManagedGroups(api *apiclient.Client, kb *keyboard.Builder, botName string, log *slog.Logger) CallbackHandler {
	return func(c telebot.Context) error {
		if c.Sender() == nil {
			return nil
		}
		_ = c.Respond()

		ctx := context.Background()

		groups, err := api.AdminGroups(ctx, c.Sender().ID)
		if err != nil {
			return err
		}

		if len(groups) == 0 {
			return c.Edit(withMainMenuHint("У вас нет групп, которыми вы управляете."))
		}

		if err := c.Edit("Вы управляете этими группами:"); err != nil {
			return err
		}
		for _, group := range groups {
			text := fmt.Sprintf("📍 %s\n🔗 Ссылка для приглашения: %s",
				group.Title, inviteLink(botName, group.GroupLink))
			if err := c.Send(text, kb.AdminGroupItem(group.ID)); err != nil {
				return err
			}
		}

		return c.Send(mainMenuHint)
	}
}

// HandleDeleteGroup deletes a group the user administers.
func HandleDeleteGroup(api *apiclient.Client, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c.Sender() == nil || c.Callback() == nil {
			return nil
		}
		_ = c.Respond()

		groupID, err := trailingID(c.Callback().Data)
		if err != nil {
			log.Warn("malformed delete_group callback", slog.String("data", c.Callback().Data))
			return nil
		}

		ctx := context.Background()
		if err := api.DeleteGroup(ctx, groupID, c.Sender().ID); err != nil {
			return err
		}

		return c.Edit(withMainMenuHint("Группа удалена."))
	}
}

// HandleAddGroupStart begins the create-group dialog.
func HandleAddGroupStart(fsm state.Machine) CallbackHandler {
	return func(c telebot.Context) error {
		if c.Sender() == nil || c.Chat() == nil {
			return nil
		}
		_ = c.Respond()

		ctx := context.Background()
		if err := fsm.SetSession(ctx, c.Sender().ID, c.Chat().ID, state.StateAddGroupTitle, nil); err != nil {
			return err
		}

		return c.Edit("Введите название новой группы:")
	}
}

// NewGroupTitleStateHandler creates the group from the entered title and
// closes the dialog.
func NewGroupTitleStateHandler(api *apiclient.Client, fsm state.Machine, botName string, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c.Sender() == nil || c.Chat() == nil {
			return nil
		}

		title := strings.TrimSpace(c.Text())
		if title == "" {
			return c.Send("Название не может быть пустым. Введите название новой группы\nили отмените /cancel")
		}

		ctx := context.Background()
		userID := c.Sender().ID
		chatID := c.Chat().ID

		groupLink, err := api.CreateGroup(ctx, userID, title)
		if err != nil {
			return err
		}

		if err := fsm.ClearSession(ctx, userID, chatID); err != nil {
			log.Error("failed to clear session after creating group",
				slog.Int64("user_id", userID), slog.Int64("chat_id", chatID), slog.Any("error", err))
		}

		if err := c.Send(fmt.Sprintf("Группа создана ✅\n🔗 Ссылка для приглашения: %s",
			inviteLink(botName, groupLink))); err != nil {
			return err
		}

		return c.Send(mainMenuHint)
	}
}
