// Package bot wires the Telegram transport: a command/callback router, a
// dialog-state dispatcher, and the handlers that drive the location and
// group flows through the backend API.
package bot

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/geopin/geopin-bot/internal/apiclient"
	"github.com/geopin/geopin-bot/internal/bot/handlers"
	"github.com/geopin/geopin-bot/internal/bot/keyboard"
	apperrors "github.com/geopin/geopin-bot/internal/errors"
	"github.com/geopin/geopin-bot/internal/state"
	"github.com/geopin/geopin-bot/pkg/config"
)

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot    *telebot.Bot
	api        *apiclient.Client
	fsm        state.Machine
	router     *Router
	dispatcher *Dispatcher
	keyboard   *keyboard.Builder
	errHandler *apperrors.Handler
	log        *slog.Logger
	cfg        config.Config
}

// New builds a telegram bot instance configured according to the application settings.
func New(cfg config.Config, log *slog.Logger, api *apiclient.Client, fsm state.Machine) (*Bot, error) {
	settings := telebot.Settings{
		Token: cfg.Bot.Token,
		Poller: &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		},
		ParseMode: telebot.ModeDefault,
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	kb := keyboard.NewBuilder(cfg.Bot.MapURL, log)
	dispatcher := NewDispatcher(fsm, log)
	router := NewRouter(dispatcher, log)
	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)

	b := &Bot{
		telebot:    tb,
		api:        api,
		fsm:        fsm,
		router:     router,
		dispatcher: dispatcher,
		keyboard:   kb,
		errHandler: errHandler,
		log:        log,
		cfg:        cfg,
	}

	b.setupRouter()
	b.registerTelebotHandlers()

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) setupRouter() {
	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(MetricsMiddleware())

	botName := b.cfg.Bot.Name

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(b.api, b.keyboard, b.log))
	b.router.RegisterCommand(CommandAbout, handlers.NewAboutHandler())
	b.router.RegisterCommand(CommandHelp, handlers.NewHelpHandler())
	b.router.RegisterCommand(CommandMain, handlers.NewMainMenuHandler(b.api, b.keyboard, b.log))
	b.router.RegisterCommand(CommandCancel, handlers.NewCancelHandler(b.fsm, b.log))
	b.router.RegisterCommand(CommandSkipTraining, handlers.NewSkipTrainingHandler(b.api, b.keyboard, b.log))
	b.router.RegisterCommand(CommandRepeatTraining, handlers.NewRepeatTrainingHandler(b.api, b.keyboard, b.log))

	b.router.RegisterCallback(CallbackLocations, handlers.HandleLocationsMenu(b.keyboard))
	b.router.RegisterCallback(CallbackListLocations, handlers.HandleListLocations(b.api, b.keyboard, b.log))
	b.router.RegisterCallback(CallbackAddLocation, handlers.HandleAddLocationStart(b.fsm))
	b.router.RegisterCallback(CallbackDeleteLocation, handlers.HandleDeleteLocation(b.api, b.log))

	b.router.RegisterCallback(CallbackMyGroups, handlers.HandleMyGroups(b.api, b.keyboard, b.log))
	b.router.RegisterCallback(CallbackLeaveGroup, handlers.HandleLeaveGroup(b.api, b.log))
	b.router.RegisterCallback(CallbackAdminGroups, handlers.HandleAdminGroups(b.keyboard))
	b.router.RegisterCallback(CallbackListManagedGroups, handlers.HandleListManagedGroups(b.api, b.keyboard, botName, b.log))
	b.router.RegisterCallback(CallbackAddManageGroup, handlers.HandleAddGroupStart(b.fsm))
	b.router.RegisterCallback(CallbackDeleteGroup, handlers.HandleDeleteGroup(b.api, b.log))

	b.router.RegisterCallback(CallbackTrainingStartMap, handlers.HandleTrainingStartMap(b.api, b.keyboard, b.log))
	b.router.RegisterCallback(CallbackTrainingAddLocation, handlers.HandleTrainingAddLocation(b.api, b.keyboard, b.log))
	b.router.RegisterCallback(CallbackTrainingListLocations, handlers.HandleTrainingListLocations(b.api, b.keyboard, b.log))

	// free text outside any dialog answers with the menu, same as /main
	b.dispatcher.RegisterStateHandler(state.StateIdle,
		handlers.NewMainMenuHandler(b.api, b.keyboard, b.log))
	b.dispatcher.RegisterStateHandler(state.StateAddLocationDescription,
		handlers.NewDescriptionStateHandler(b.fsm, b.log))
	b.dispatcher.RegisterStateHandler(state.StateAddLocationCoordinates,
		handlers.NewCoordinatesStateHandler(b.api, b.fsm, b.log))
	b.dispatcher.RegisterStateHandler(state.StateAddGroupTitle,
		handlers.NewGroupTitleStateHandler(b.api, b.fsm, botName, b.log))
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil || b.router == nil {
		return
	}

	// every content type goes through the router so dialog states can
	// accept coordinates and reject everything else
	endpoints := []string{
		telebot.OnText,
		telebot.OnCallback,
		telebot.OnLocation,
		telebot.OnVenue,
		telebot.OnPhoto,
		telebot.OnSticker,
		telebot.OnDocument,
		telebot.OnAudio,
		telebot.OnVoice,
		telebot.OnVideo,
		telebot.OnVideoNote,
		telebot.OnContact,
		telebot.OnAnimation,
	}
	for _, endpoint := range endpoints {
		b.telebot.Handle(endpoint, b.router.Route)
	}
}
