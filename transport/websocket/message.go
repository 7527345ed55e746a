package websocket

import (
	"encoding/json"

	"github.com/leonelranieri/tateti/internal/tictactoe"
)

const (
	actionState = "game:state"
	actionPlay  = "game:play"
	actionJump  = "game:jump"
	actionReset = "game:reset"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Payload is the request body of game actions.
type Payload struct {
	Cell *int `json:"cell,omitempty"`
	Move *int `json:"move,omitempty"`
}

type GameResponse struct {
	SessionID string         `json:"session_id"`
	View      tictactoe.View `json:"view"`
}
