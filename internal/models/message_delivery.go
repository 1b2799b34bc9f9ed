package models

import (
	"time"

	"gorm.io/gorm"
)

// MessageDelivery records one fan-out attempt per recipient. It is a log,
// not a receipt: a row means the push was attempted for that user, whether or
// not any live connection was there to receive it.
type MessageDelivery struct {
	gorm.Model
	MessageID   uint      `gorm:"index" json:"message_id"`
	RecipientID uint      `json:"recipient_id"`
	DeliveredAt time.Time `json:"delivered_at"`
}
