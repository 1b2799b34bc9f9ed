package models

import "time"

// LastMessageSummary is the denormalized copy of the newest message, embedded
// in the conversation row. It is a cache refreshed on every append, not a
// second source of truth; a MessageID of zero means no message yet.
type LastMessageSummary struct {
	MessageID uint       `json:"message_id"`
	SenderID  uint       `json:"sender_id"`
	Content   string     `json:"content"`
	SentAt    *time.Time `json:"sent_at"`
}

func (summary *LastMessageSummary) ToLastMessageResponse() *LastMessageResponse {
	if summary.MessageID == 0 {
		return nil
	}
	return &LastMessageResponse{
		MessageID: summary.MessageID,
		SenderID:  summary.SenderID,
		Content:   summary.Content,
		SentAt:    summary.SentAt,
	}
}

type LastMessageResponse struct {
	MessageID uint       `json:"message_id"`
	SenderID  uint       `json:"sender_id"`
	Content   string     `json:"content"`
	SentAt    *time.Time `json:"sent_at"`
}
