package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message between two accounts (MongoDB)
type Message struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Sender          AccountRef         `json:"sender" bson:"sender"`
	Receiver        AccountRef         `json:"receiver" bson:"receiver"`
	ConversationKey string             `json:"-" bson:"conversation_key"`
	Content         string             `json:"content" bson:"content"`
	Attachments     []string           `json:"attachments,omitempty" bson:"attachments,omitempty"`
	IsRead          bool               `json:"is_read" bson:"is_read"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
}

// ConversationKey groups every message between a and b regardless of direction.
func ConversationKey(a, b AccountRef) string {
	ka, kb := a.Key(), b.Key()
	if ka > kb {
		ka, kb = kb, ka
	}
	return ka + "|" + kb
}

type SendMessageRequest struct {
	ReceiverID   uint        `json:"receiver_id" validate:"required"`
	ReceiverType AccountType `json:"receiver_type" validate:"required,oneof=User Company"`
	Content      string      `json:"content" validate:"required,min=1,max=5000"`
	Attachments  []string    `json:"attachments,omitempty" validate:"omitempty,max=10"`
}

// ConversationSummary is one row of an inbox.
type ConversationSummary struct {
	ConversationKey string         `json:"conversation_key" bson:"_id"`
	LastMessage     Message        `json:"last_message" bson:"last_message"`
	UnreadCount     int64          `json:"unread_count" bson:"unread_count"`
	Counterpart     AccountSummary `json:"counterpart" bson:"-"`
}
