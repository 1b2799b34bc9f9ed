package models

const REDIS_CHANNEL_CHAT = "chat_channel"

// RedisPublishedMessage is the fan-out event relayed through redis so every
// instance can deliver to its own local connections. When ReceiverIDs is set
// the event goes to those users' connection groups; otherwise it is broadcast
// to the conversation-addressed group.
type RedisPublishedMessage struct {
	Event          string `json:"event"`
	ConversationID uint   `json:"conversation_id"`
	ReceiverIDs    []uint `json:"receiver_ids,omitempty"`
	Payload        any    `json:"payload"`
}
