package models

type InitiateConversationRequestBody struct {
	RecipientID uint `json:"recipient_id" binding:"required"`
}
