package models

import "time"

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "PENDING"
	ConnectionAccepted ConnectionStatus = "ACCEPTED"
	ConnectionRejected ConnectionStatus = "REJECTED"
)

// Connection is a request between two users and its outcome (PostgreSQL).
// PairKey holds the unordered pair so that only one row can exist per pair.
type Connection struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RequesterID uint             `json:"requester_id" gorm:"index;uniqueIndex:idx_connection_requester_receiver"`
	ReceiverID  uint             `json:"receiver_id" gorm:"index;uniqueIndex:idx_connection_requester_receiver"`
	PairKey     string           `json:"-" gorm:"size:64;uniqueIndex"`
	Status      ConnectionStatus `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	CreatedAt   time.Time        `json:"created_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`
}

// Other returns the counterpart of userID in the connection.
func (c *Connection) Other(userID uint) uint {
	if c.RequesterID == userID {
		return c.ReceiverID
	}
	return c.RequesterID
}

// ConnectionPairKey is independent of argument order.
func ConnectionPairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return uintToString(a) + ":" + uintToString(b)
}

type CreateConnectionRequest struct {
	ReceiverID uint `json:"receiver_id" validate:"required"`
}

type RespondConnectionRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// ConnectionStatusView is what one user sees about their relation with another.
type ConnectionStatusView struct {
	Status       string `json:"status"` // none, pending_sent, pending_received, connected, rejected
	ConnectionID uint   `json:"connection_id,omitempty"`
}

// ConnectionView is a connection as seen by one of its parties.
type ConnectionView struct {
	ID          uint             `json:"id"`
	Status      ConnectionStatus `json:"status"`
	Counterpart AccountSummary   `json:"counterpart"`
	CreatedAt   time.Time        `json:"created_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`
}
