package models

import (
	"gorm.io/gorm"
)

// Conversation is a durable two-party thread. The participant pair is
// normalized to (low, high) so lookup by pair is order independent; the
// composite unique index makes concurrent duplicate creates lose at the store.
type Conversation struct {
	gorm.Model
	ParticipantLow  uint                 `gorm:"not null;uniqueIndex:idx_conversations_participant_pair" json:"-"`
	ParticipantHigh uint                 `gorm:"not null;uniqueIndex:idx_conversations_participant_pair" json:"-"`
	Members         []ConversationMember `json:"-"`
	LastMessage     LastMessageSummary   `gorm:"embedded;embeddedPrefix:last_message_" json:"last_message"`
}

// NormalizeParticipantPair returns the canonical order of a two-user pair.
func NormalizeParticipantPair(userA, userB uint) (uint, uint) {
	if userA > userB {
		return userB, userA
	}
	return userA, userB
}

func (conversation *Conversation) ParticipantIDs() []uint {
	return []uint{conversation.ParticipantLow, conversation.ParticipantHigh}
}

func (conversation *Conversation) HasParticipant(userID uint) bool {
	return conversation.ParticipantLow == userID || conversation.ParticipantHigh == userID
}

func (conversation *Conversation) ToConversationResponse(unread int) ConversationResponse {
	return ConversationResponse{
		ID:             conversation.ID,
		ParticipantIDs: conversation.ParticipantIDs(),
		LastMessage:    conversation.LastMessage.ToLastMessageResponse(),
		CreatedAt:      conversation.CreatedAt,
		UpdatedAt:      conversation.UpdatedAt,
		Unread:         unread,
	}
}
