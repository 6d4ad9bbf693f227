package state

import "time"

// State represents a finite-state machine state.
type State string

const (
	// StateIdle indicates that the bot is waiting for the next user command.
	StateIdle State = "idle"
	// StateAddLocationDescription indicates that the user is entering a description for a new location.
	StateAddLocationDescription State = "add_location_description"
	// StateAddLocationCoordinates indicates that the user is sending coordinates for a new location.
	StateAddLocationCoordinates State = "add_location_coordinates"
	// StateAddGroupTitle indicates that the user is entering the title of a new group.
	StateAddGroupTitle State = "add_group_title"
	// StateError indicates that the bot is in an error state and requires recovery.
	StateError State = "error"
)

// Session captures the current FSM state of a user within a chat.
type Session struct {
	UserID       int64                  `json:"user_id"`
	ChatID       int64                  `json:"chat_id"`
	CurrentState State                  `json:"current_state"`
	Context      map[string]interface{} `json:"context"`
	UpdatedAt    time.Time              `json:"updated_at"`
}
