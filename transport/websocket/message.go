package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

const ActionSessionState = "session:state"

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func newStateMessage(state entity.SessionState) (Message, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal session state: %w", err)
	}

	return Message{
		Action:  ActionSessionState,
		Payload: payload,
	}, nil
}
