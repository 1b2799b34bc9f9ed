package services

import (
	"log"
	"strings"
	"time"

	"directchat/internal/errs"
	"directchat/internal/models"
)

const maxMessagePageSize = 100

// ConversationStore is the durable conversation record: pair-keyed identity,
// denormalized last-message summary and per-user read watermarks.
type ConversationStore interface {
	CreateOrGetConversation(userA, userB uint) (*models.Conversation, []error)
	GetConversationForUser(conversationID, userID uint) (*models.Conversation, []error)
	GetUserConversations(userID uint) ([]models.Conversation, []error)
	MarkConversationAsRead(conversationID, userID uint) []error
	UpdateLastMessage(conversationID uint, summary models.LastMessageSummary) []error
}

// MessageStore is the append-only message log plus the batched unread counter.
type MessageStore interface {
	SaveMessage(message *models.Message) (*models.Message, []error)
	GetConversationMessages(conversationID uint, before *time.Time, limit int) ([]models.Message, []error)
	CountUnreadForUser(conversationIDs []uint, userID uint) (map[uint]int, error)
}

// Publisher pushes events to the live connections of the given users.
type Publisher interface {
	PublishMessage(message *models.Message, participantIDs []uint) error
	PublishRead(conversationID, readerID uint) error
}

// ChatService orchestrates the stores and the fan-out engine. It is the only
// component the transport layers call and the place membership authorization
// happens.
type ChatService struct {
	conversations ConversationStore
	messages      MessageStore
	publisher     Publisher
}

func NewChatService(conversations ConversationStore, messages MessageStore, publisher Publisher) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		publisher:     publisher,
	}
}

func (cs *ChatService) CreateOrGetConversation(userID, recipientID uint) (*models.ConversationResponse, []error) {
	if userID == recipientID {
		return nil, []error{errs.ErrSelfConversation}
	}
	if recipientID == 0 {
		return nil, []error{errs.ErrInvalidRequestBody}
	}

	conversation, errors := cs.conversations.CreateOrGetConversation(userID, recipientID)
	if len(errors) > 0 {
		return nil, errors
	}

	response := conversation.ToConversationResponse(0)
	return &response, nil
}

// SendMessage is the write path: authorize, append, refresh the summary, fan
// out. The message is durable after the append; a summary or fan-out failure
// afterwards is logged and the caller still gets the persisted message, since
// the summary self-heals on the next append and delivery is best effort.
func (cs *ChatService) SendMessage(conversationID, senderID uint, senderTag, content, messageType string) (*models.Message, []error) {
	if strings.TrimSpace(content) == "" {
		return nil, []error{errs.ErrEmptyMessageContent}
	}

	conversation, errors := cs.conversations.GetConversationForUser(conversationID, senderID)
	if len(errors) > 0 {
		return nil, errors
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderTag:      senderTag,
		Content:        content,
		MessageType:    messageType,
	}
	saved, errors := cs.messages.SaveMessage(message)
	if len(errors) > 0 {
		return nil, errors
	}

	if updateErrs := cs.conversations.UpdateLastMessage(conversationID, saved.ToLastMessageSummary()); len(updateErrs) > 0 {
		log.Printf("Failed to update last message summary for conversation %d after message %d: %v",
			conversationID, saved.ID, updateErrs)
	}

	if err := cs.publisher.PublishMessage(saved, conversation.ParticipantIDs()); err != nil {
		log.Printf("Failed to publish message %d to conversation %d participants: %v",
			saved.ID, conversationID, err)
	}

	return saved, nil
}

// GetMessages authorizes the caller and pages backwards through the log,
// newest first, strictly before the cursor when one is given.
func (cs *ChatService) GetMessages(conversationID, userID uint, before *time.Time, limit int) ([]models.Message, []error) {
	if limit <= 0 {
		return nil, []error{errs.ErrInvalidLimit}
	}
	if limit > maxMessagePageSize {
		limit = maxMessagePageSize
	}

	if _, errors := cs.conversations.GetConversationForUser(conversationID, userID); len(errors) > 0 {
		return nil, errors
	}

	return cs.messages.GetConversationMessages(conversationID, before, limit)
}

func (cs *ChatService) GetConversation(conversationID, userID uint) (*models.ConversationResponse, []error) {
	conversation, errors := cs.conversations.GetConversationForUser(conversationID, userID)
	if len(errors) > 0 {
		return nil, errors
	}
	response := conversation.ToConversationResponse(0)
	return &response, nil
}

// GetUserConversations lists the caller's conversations, most recently active
// first, each augmented with its unread count in one grouped query.
func (cs *ChatService) GetUserConversations(userID uint) (*models.ConversationListResponse, []error) {
	conversations, errors := cs.conversations.GetUserConversations(userID)
	if len(errors) > 0 {
		return nil, errors
	}

	conversationIDs := make([]uint, 0, len(conversations))
	for _, conversation := range conversations {
		conversationIDs = append(conversationIDs, conversation.ID)
	}

	unread, err := cs.messages.CountUnreadForUser(conversationIDs, userID)
	if err != nil {
		return nil, []error{err}
	}

	responses := make([]models.ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		// Missing map entries mean zero unread.
		responses = append(responses, conversation.ToConversationResponse(unread[conversation.ID]))
	}

	return &models.ConversationListResponse{
		Conversations: responses,
		Total:         len(responses),
	}, nil
}

// MarkConversationAsRead moves the caller's watermark and notifies the
// conversation group so other devices can clear badges.
func (cs *ChatService) MarkConversationAsRead(conversationID, userID uint) []error {
	if _, errors := cs.conversations.GetConversationForUser(conversationID, userID); len(errors) > 0 {
		return errors
	}

	if errors := cs.conversations.MarkConversationAsRead(conversationID, userID); len(errors) > 0 {
		return errors
	}

	if err := cs.publisher.PublishRead(conversationID, userID); err != nil {
		log.Printf("Failed to publish read event for conversation %d: %v", conversationID, err)
	}

	return nil
}
