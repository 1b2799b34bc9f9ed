package models

import (
	"gorm.io/gorm"
)

// Message is append-only: rows are never updated after insert. CreatedAt is
// the store-assigned timestamp used for ordering and cursor pagination.
type Message struct {
	gorm.Model
	ConversationID uint         `gorm:"index" json:"conversation_id"`
	Conversation   Conversation `json:"-"`
	SenderID       uint         `gorm:"index" json:"sender_id"`
	SenderTag      string       `json:"sender_tag"`
	Content        string       `gorm:"not null" json:"content"`
	MessageType    string       `gorm:"default:text" json:"message_type"`
}

func (message *Message) ToLastMessageSummary() LastMessageSummary {
	sentAt := message.CreatedAt
	return LastMessageSummary{
		MessageID: message.ID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		SentAt:    &sentAt,
	}
}
