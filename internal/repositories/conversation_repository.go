package repositories

import (
	"errors"
	"time"

	"directchat/internal/errs"
	"directchat/internal/models"

	"gorm.io/gorm"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{
		db: db,
	}
}

// CreateOrGetConversation finds the conversation for a user pair or creates it.
// The pair is normalized before lookup so argument order never matters. A
// concurrent duplicate create loses against the unique pair index and falls
// back to reading the winner's row, so callers never see the race.
func (cr *ConversationRepository) CreateOrGetConversation(userA, userB uint) (*models.Conversation, []error) {
	low, high := models.NormalizeParticipantPair(userA, userB)

	conversation, err := cr.findByPair(low, high)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, []error{err}
	}

	conversation = &models.Conversation{
		ParticipantLow:  low,
		ParticipantHigh: high,
	}

	txErr := cr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conversation).Error; err != nil {
			return err
		}
		for _, userID := range conversation.ParticipantIDs() {
			member := models.ConversationMember{
				ConversationID: conversation.ID,
				UserID:         userID,
				JoinedAt:       time.Now(),
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			existing, findErr := cr.findByPair(low, high)
			if findErr != nil {
				return nil, []error{errs.ErrConversationConflict, findErr}
			}
			return existing, nil
		}
		return nil, []error{txErr}
	}

	return conversation, nil
}

func (cr *ConversationRepository) findByPair(low, high uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := cr.db.
		Where("participant_low = ? AND participant_high = ?", low, high).
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetConversationForUser answers not-found both when the conversation does not
// exist and when the requesting user is not a participant, so non-participants
// cannot probe for conversation existence.
func (cr *ConversationRepository) GetConversationForUser(conversationID, userID uint) (*models.Conversation, []error) {
	var conversation models.Conversation

	err := cr.db.Where("id = ?", conversationID).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, []error{errs.ErrConversationNotFound}
		}
		return nil, []error{err}
	}

	if !conversation.HasParticipant(userID) {
		return nil, []error{errs.ErrConversationNotFound}
	}

	return &conversation, nil
}

func (cr *ConversationRepository) GetUserConversations(userID uint) ([]models.Conversation, []error) {
	var conversations []models.Conversation

	err := cr.db.
		Where("participant_low = ? OR participant_high = ?", userID, userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, []error{err}
	}

	return conversations, nil
}

// MarkConversationAsRead moves the caller's read watermark to now. Only the
// single member row column is touched, so concurrent marks by the other
// participant or concurrent summary updates cannot be lost.
func (cr *ConversationRepository) MarkConversationAsRead(conversationID, userID uint) []error {
	result := cr.db.Model(&models.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Update("last_read_at", time.Now())
	if err := result.Error; err != nil {
		return []error{err}
	}
	if result.RowsAffected == 0 {
		return []error{errs.ErrConversationNotFound}
	}

	return nil
}

// UpdateLastMessage refreshes the denormalized summary and bumps updated_at to
// the message timestamp. This is a partial update of exactly those columns;
// under concurrent appends the row converges on whichever update ran last,
// which is acceptable because messages themselves are ordered by timestamp.
func (cr *ConversationRepository) UpdateLastMessage(conversationID uint, summary models.LastMessageSummary) []error {
	err := cr.db.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"last_message_message_id": summary.MessageID,
			"last_message_sender_id":  summary.SenderID,
			"last_message_content":    summary.Content,
			"last_message_sent_at":    summary.SentAt,
			"updated_at":              summary.SentAt,
		}).Error
	if err != nil {
		return []error{err}
	}

	return nil
}
