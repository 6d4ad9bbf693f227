package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/geopin/geopin-bot/internal/bot/handlers"
	"github.com/geopin/geopin-bot/internal/state"
)

// Dispatcher routes incoming updates to state-specific handlers.
type Dispatcher struct {
	fsm           state.Machine
	stateHandlers map[state.State]handlers.Handler
	log           *slog.Logger
	mu            sync.RWMutex
}

// NewDispatcher creates a Dispatcher with an empty handlers registry.
func NewDispatcher(fsm state.Machine, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		fsm:           fsm,
		stateHandlers: make(map[state.State]handlers.Handler),
		log:           log,
	}
}

// RegisterStateHandler registers a handler for the provided state.
func (d *Dispatcher) RegisterStateHandler(s state.State, h handlers.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stateHandlers[s] = h
}

// Dispatch routes the update based on the user's current dialog state.
func (d *Dispatcher) Dispatch(c telebot.Context) error {
	if c == nil || c.Sender() == nil || c.Chat() == nil {
		d.log.Warn("cannot dispatch without sender information")
		return nil
	}

	currentState, err := d.currentState(c)
	if err != nil {
		return err
	}

	handler := d.getHandler(currentState)
	if handler == nil {
		d.log.Info("no handler registered for state",
			"state", currentState, "user_id", c.Sender().ID, "chat_id", c.Chat().ID)
		return nil
	}

	return handler(c)
}

func (d *Dispatcher) currentState(c telebot.Context) (state.State, error) {
	ctx := context.Background()

	currentState := state.StateIdle
	session, err := d.fsm.GetSession(ctx, c.Sender().ID, c.Chat().ID)
	if err != nil {
		if !errors.Is(err, state.ErrSessionNotFound) {
			return currentState, err
		}
	} else if session != nil {
		currentState = session.CurrentState
	}

	return currentState, nil
}

func (d *Dispatcher) getHandler(s state.State) handlers.Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stateHandlers[s]
}
