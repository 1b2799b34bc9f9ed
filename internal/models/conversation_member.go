package models

import (
	"time"

	"gorm.io/gorm"
)

// ConversationMember maps a user to a conversation and carries that user's
// read watermark. A nil LastReadAt means the user has never marked the
// conversation as read.
type ConversationMember struct {
	gorm.Model
	ConversationID uint       `gorm:"uniqueIndex:idx_conversation_members_pair" json:"conversation_id"`
	UserID         uint       `gorm:"uniqueIndex:idx_conversation_members_pair" json:"user_id"`
	JoinedAt       time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"joined_at"`
	LastReadAt     *time.Time `json:"last_read_at"`
}
