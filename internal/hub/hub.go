package hub

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"directchat/internal/enums"
	"directchat/internal/models"
	redisModels "directchat/internal/models/redis"
	socketModels "directchat/internal/models/socket"

	"github.com/redis/go-redis/v9"
)

// Conn is the slice of a websocket connection the hub needs. *websocket.Conn
// satisfies it; tests plug in fakes.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

type SocketClient struct {
	Conn   Conn
	UserID uint
}

// DeliveryRecorder logs one fan-out attempt per recipient.
type DeliveryRecorder interface {
	RecordDelivery(messageID, recipientID uint) error
}

// ChatHub is the fan-out engine. Connections are grouped by user id, so every
// device of a user receives each push, and optionally by conversation id for
// conversation-addressed broadcasts. Events are relayed through redis pub/sub
// so each instance delivers to its own local connections; without a redis
// client the hub delivers directly, which keeps it testable offline.
type ChatHub struct {
	mu            sync.Mutex
	ctx           context.Context
	redis         *redis.Client
	users         map[uint][]*SocketClient
	conversations map[uint][]*SocketClient
	deliveries    DeliveryRecorder
}

func NewChatHub(ctx context.Context, redis *redis.Client, deliveries DeliveryRecorder) *ChatHub {
	return &ChatHub{
		ctx:           ctx,
		redis:         redis,
		users:         make(map[uint][]*SocketClient),
		conversations: make(map[uint][]*SocketClient),
		deliveries:    deliveries,
	}
}

// Register adds a connection to its user's group. Connections without a user
// id are not added to any group; they only ever see conversation broadcasts
// they explicitly join.
func (h *ChatHub) Register(client *SocketClient) {
	if client.UserID == 0 {
		log.Printf("Unauthenticated socket connected, not joining any user group")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.users[client.UserID] = append(h.users[client.UserID], client)
}

func (h *ChatHub) Unregister(client *SocketClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.users[client.UserID] = removeClient(h.users[client.UserID], client)
	if len(h.users[client.UserID]) == 0 {
		delete(h.users, client.UserID)
	}
	for conversationID, clients := range h.conversations {
		h.conversations[conversationID] = removeClient(clients, client)
		if len(h.conversations[conversationID]) == 0 {
			delete(h.conversations, conversationID)
		}
	}
}

// JoinConversation adds a connection to the conversation-addressed group.
// Membership must be authorized by the caller.
func (h *ChatHub) JoinConversation(client *SocketClient, conversationID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, existing := range h.conversations[conversationID] {
		if existing == client {
			return
		}
	}
	h.conversations[conversationID] = append(h.conversations[conversationID], client)
}

// ConnectionCount reports live connections for a user.
func (h *ChatHub) ConnectionCount(userID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.users[userID])
}

// PublishMessage fans a new message out to every participant's user group,
// the sender included so their other devices see the echo. One delivery-log
// row is recorded per participant. Per-recipient pushes are independent; a
// recipient without live connections is a no-op, never an error.
func (h *ChatHub) PublishMessage(message *models.Message, participantIDs []uint) error {
	if h.deliveries != nil {
		for _, participantID := range participantIDs {
			if err := h.deliveries.RecordDelivery(message.ID, participantID); err != nil {
				log.Printf("Failed to record delivery of message %d to user %d: %v", message.ID, participantID, err)
			}
		}
	}

	event := redisModels.RedisPublishedMessage{
		Event:          enums.SOCKET_EVENT_NEW_MESSAGE,
		ConversationID: message.ConversationID,
		ReceiverIDs:    participantIDs,
		Payload:        message,
	}
	return h.publish(event)
}

// PublishRead broadcasts a read watermark change to the conversation group.
func (h *ChatHub) PublishRead(conversationID, readerID uint) error {
	event := redisModels.RedisPublishedMessage{
		Event:          enums.SOCKET_EVENT_CONVERSATION_READ,
		ConversationID: conversationID,
		Payload: socketModels.ConversationReadPayload{
			ConversationID: conversationID,
			ReaderID:       readerID,
		},
	}
	return h.publish(event)
}

func (h *ChatHub) publish(event redisModels.RedisPublishedMessage) error {
	if h.redis == nil {
		h.deliver(event)
		return nil
	}
	jsonEvent, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.redis.Publish(h.ctx, redisModels.REDIS_CHANNEL_CHAT, jsonEvent).Err()
}

// Run consumes the redis relay and delivers to local connections. It blocks
// until the subscription channel closes.
func (h *ChatHub) Run() {
	if h.redis == nil {
		return
	}
	pubsub := h.redis.Subscribe(h.ctx, redisModels.REDIS_CHANNEL_CHAT)
	if _, err := pubsub.Receive(h.ctx); err != nil {
		log.Fatalf("Could not subscribe to channel: %v", err)
	}
	for msg := range pubsub.Channel() {
		var event redisModels.RedisPublishedMessage
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("Error unmarshalling published event: %v", err)
			continue
		}
		h.deliver(event)
	}
}

func (h *ChatHub) deliver(event redisModels.RedisPublishedMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(event.ReceiverIDs) > 0 {
		for _, receiverID := range event.ReceiverIDs {
			// Copy before iterating: a failed write removes the client from
			// the group slice.
			clients := append([]*SocketClient(nil), h.users[receiverID]...)
			for _, client := range clients {
				h.writeLocked(client, event)
			}
		}
		return
	}

	clients := append([]*SocketClient(nil), h.conversations[event.ConversationID]...)
	for _, client := range clients {
		h.writeLocked(client, event)
	}
}

// writeLocked pushes one event to one connection and drops the connection on
// failure. A failed write never affects delivery to the other recipients.
func (h *ChatHub) writeLocked(client *SocketClient, event redisModels.RedisPublishedMessage) {
	if err := client.Conn.WriteJSON(event); err != nil {
		log.Printf("Error writing to socket of user %d: %v", client.UserID, err)
		if closeErr := client.Conn.Close(); closeErr != nil {
			log.Printf("Error closing socket of user %d: %v", client.UserID, closeErr)
		}
		h.users[client.UserID] = removeClient(h.users[client.UserID], client)
		if len(h.users[client.UserID]) == 0 {
			delete(h.users, client.UserID)
		}
		for conversationID, clients := range h.conversations {
			h.conversations[conversationID] = removeClient(clients, client)
			if len(h.conversations[conversationID]) == 0 {
				delete(h.conversations, conversationID)
			}
		}
	}
}

// Shutdown closes every live connection and clears the registry.
func (h *ChatHub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	closed := make(map[*SocketClient]bool)
	for userID, clients := range h.users {
		for _, client := range clients {
			if !closed[client] {
				closed[client] = true
				if err := client.Conn.Close(); err != nil {
					log.Printf("Error closing socket of user %d: %v", client.UserID, err)
				}
			}
		}
		delete(h.users, userID)
	}
	for conversationID, clients := range h.conversations {
		for _, client := range clients {
			if !closed[client] {
				closed[client] = true
				if err := client.Conn.Close(); err != nil {
					log.Printf("Error closing socket of user %d: %v", client.UserID, err)
				}
			}
		}
		delete(h.conversations, conversationID)
	}
}

func removeClient(clients []*SocketClient, client *SocketClient) []*SocketClient {
	for i, existing := range clients {
		if existing == client {
			return append(clients[:i], clients[i+1:]...)
		}
	}
	return clients
}
