package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeClick       MessageType = "click"
	MessageTypeMove        MessageType = "move"
	MessageTypeGameState   MessageType = "gameState"
	MessageTypeClickResult MessageType = "clickResult"
	MessageTypeError       MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage marshals payload into a message of type t.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}

func ErrorMessage(errorMsg string) Message {
	data, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: errorMsg})
	return Message{Type: MessageTypeError, Payload: data}
}
