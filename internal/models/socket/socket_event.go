package models

import (
	"encoding/json"
)

// SocketEvent is the envelope every websocket frame carries in both
// directions. Payload stays raw until the event type is known.
type SocketEvent struct {
	Event          string          `json:"event"`
	ConversationID uint            `json:"conversation_id"`
	Payload        json.RawMessage `json:"payload"`
}

type SendMessagePayload struct {
	Content     string `json:"content"`
	MessageType string `json:"message_type"`
}

type ConversationReadPayload struct {
	ConversationID uint `json:"conversation_id"`
	ReaderID       uint `json:"reader_id"`
}

type ErrorPayload struct {
	Errors []string `json:"errors"`
}
