package ws

import (
	"encoding/json"
	"fmt"
)

// MessageType names a websocket frame kind.
type MessageType string

const (
	// client to server
	MessageTypeMove       MessageType = "move"
	MessageTypeUndo       MessageType = "undo"
	MessageTypeReset      MessageType = "reset"
	MessageTypeLegalMoves MessageType = "legalMoves"

	// server to client
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeMoveResult MessageType = "moveResult"
	MessageTypeError      MessageType = "error"
)

// Message is the envelope for every websocket frame.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into an envelope of the given type.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return Message{Type: t, Payload: raw}, nil
}
