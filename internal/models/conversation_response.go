package models

import "time"

type ConversationResponse struct {
	ID             uint                 `json:"id"`
	ParticipantIDs []uint               `json:"participant_ids"`
	LastMessage    *LastMessageResponse `json:"last_message"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	Unread         int                  `json:"unread"`
}
