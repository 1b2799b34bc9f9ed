package repositories

import (
	"time"

	"directchat/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{
		db: db,
	}
}

// SaveMessage appends a message to the conversation log. Membership is not
// checked here; the service authorizes once before calling in.
func (mr *MessageRepository) SaveMessage(message *models.Message) (*models.Message, []error) {
	if message.MessageType == "" {
		message.MessageType = "text"
	}
	if err := mr.db.Create(message).Error; err != nil {
		return nil, []error{err}
	}
	return message, nil
}

// GetConversationMessages returns up to limit messages newest first. The
// cursor is exclusive: only rows strictly older than before are returned, so
// paging with the timestamp of the last row of a page never repeats it.
func (mr *MessageRepository) GetConversationMessages(conversationID uint, before *time.Time, limit int) ([]models.Message, []error) {
	var messages []models.Message

	query := mr.db.Where("conversation_id = ?", conversationID)
	if before != nil {
		query = query.Where("created_at < ?", *before)
	}

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, []error{err}
	}

	return messages, nil
}

// CountUnreadForUser computes unread counts for a batch of conversations with
// one grouped query: messages newer than the member's read watermark and not
// authored by the user. Conversations without unread messages are simply
// absent from the map.
func (mr *MessageRepository) CountUnreadForUser(conversationIDs []uint, userID uint) (map[uint]int, error) {
	unread := make(map[uint]int)
	if len(conversationIDs) == 0 {
		return unread, nil
	}

	rows, err := mr.db.Raw(`
		SELECT m.conversation_id, COUNT(*) AS unread
		FROM messages m
		JOIN conversation_members cm
			ON cm.conversation_id = m.conversation_id AND cm.user_id = ?
		WHERE m.conversation_id IN ?
			AND m.sender_id <> ?
			AND m.deleted_at IS NULL
			AND (cm.last_read_at IS NULL OR m.created_at > cm.last_read_at)
		GROUP BY m.conversation_id`,
		userID, conversationIDs, userID,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var conversationID uint
		var count int
		if err := rows.Scan(&conversationID, &count); err != nil {
			return nil, err
		}
		unread[conversationID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return unread, nil
}

// RecordDelivery logs one fan-out attempt for one recipient.
func (mr *MessageRepository) RecordDelivery(messageID, recipientID uint) error {
	delivery := models.MessageDelivery{
		MessageID:   messageID,
		RecipientID: recipientID,
		DeliveredAt: time.Now(),
	}
	return mr.db.Create(&delivery).Error
}
