package repositories

import (
	"errors"
	"testing"
	"time"

	"directchat/internal/errs"
	"directchat/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCreateOrGetConversation_OrderIndependent(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepository(db)

	first, createErrs := repo.CreateOrGetConversation(1, 2)
	assert.Empty(t, createErrs)

	second, getErrs := repo.CreateOrGetConversation(2, 1)
	assert.Empty(t, getErrs)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, []uint{1, 2}, second.ParticipantIDs())

	// The repeated call must not have created a second member set.
	var memberCount int64
	db.Model(&models.ConversationMember{}).
		Where("conversation_id = ?", first.ID).
		Count(&memberCount)
	assert.Equal(t, int64(2), memberCount)
}

func TestCreateOrGetConversation_PairIndexRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)

	assert.NoError(t, db.Create(&models.Conversation{ParticipantLow: 1, ParticipantHigh: 2}).Error)

	// A second row for the same pair is what a lost createOrGet race would
	// insert; the unique index must refuse it with a translatable error.
	err := db.Create(&models.Conversation{ParticipantLow: 1, ParticipantHigh: 2}).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got: %v", err)
}

func TestGetConversationForUser_SameNotFoundForMissingAndNonParticipant(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepository(db)

	conversation, createErrs := repo.CreateOrGetConversation(1, 2)
	assert.Empty(t, createErrs)

	_, missingErrs := repo.GetConversationForUser(9999, 1)
	assert.Equal(t, []error{errs.ErrConversationNotFound}, missingErrs)

	// A non-participant gets the exact same answer as a missing id, so
	// existence cannot be probed.
	_, outsiderErrs := repo.GetConversationForUser(conversation.ID, 3)
	assert.Equal(t, []error{errs.ErrConversationNotFound}, outsiderErrs)

	found, memberErrs := repo.GetConversationForUser(conversation.ID, 2)
	assert.Empty(t, memberErrs)
	assert.Equal(t, conversation.ID, found.ID)
}

func TestGetUserConversations_MostRecentActivityFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepository(db)

	older, _ := repo.CreateOrGetConversation(1, 2)
	newer, _ := repo.CreateOrGetConversation(1, 3)

	// Bump the older conversation with a fresher last message.
	sentAt := time.Now().UTC().Add(time.Hour)
	updateErrs := repo.UpdateLastMessage(older.ID, models.LastMessageSummary{
		MessageID: 42,
		SenderID:  2,
		Content:   "hey",
		SentAt:    &sentAt,
	})
	assert.Empty(t, updateErrs)

	conversations, listErrs := repo.GetUserConversations(1)
	assert.Empty(t, listErrs)
	assert.Len(t, conversations, 2)
	assert.Equal(t, older.ID, conversations[0].ID)
	assert.Equal(t, newer.ID, conversations[1].ID)

	stranger, strangerErrs := repo.GetUserConversations(7)
	assert.Empty(t, strangerErrs)
	assert.Empty(t, stranger)
}

func TestUpdateLastMessage_RefreshesSummaryAndActivity(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepository(db)

	conversation, _ := repo.CreateOrGetConversation(1, 2)
	sentAt := time.Now().UTC().Add(30 * time.Minute)

	updateErrs := repo.UpdateLastMessage(conversation.ID, models.LastMessageSummary{
		MessageID: 42,
		SenderID:  1,
		Content:   "hello there",
		SentAt:    &sentAt,
	})
	assert.Empty(t, updateErrs)

	reloaded, getErrs := repo.GetConversationForUser(conversation.ID, 1)
	assert.Empty(t, getErrs)
	assert.Equal(t, uint(42), reloaded.LastMessage.MessageID)
	assert.Equal(t, uint(1), reloaded.LastMessage.SenderID)
	assert.Equal(t, "hello there", reloaded.LastMessage.Content)
	assert.WithinDuration(t, sentAt, *reloaded.LastMessage.SentAt, time.Second)
	assert.WithinDuration(t, sentAt, reloaded.UpdatedAt, time.Second)
}

func TestMarkConversationAsRead_SetsWatermarkForMembersOnly(t *testing.T) {
	db := newTestDB(t)
	repo := NewConversationRepository(db)

	conversation, _ := repo.CreateOrGetConversation(1, 2)

	assert.Empty(t, repo.MarkConversationAsRead(conversation.ID, 2))
	// Idempotent: marking again just moves the watermark forward.
	assert.Empty(t, repo.MarkConversationAsRead(conversation.ID, 2))

	var member models.ConversationMember
	db.Where("conversation_id = ? AND user_id = ?", conversation.ID, 2).First(&member)
	assert.NotNil(t, member.LastReadAt)

	outsiderErrs := repo.MarkConversationAsRead(conversation.ID, 9)
	assert.Equal(t, []error{errs.ErrConversationNotFound}, outsiderErrs)
}
