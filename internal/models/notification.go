package models

import "time"

type NotificationType string

const (
	NotificationConnectionRequest  NotificationType = "connection_request"
	NotificationConnectionAccepted NotificationType = "connection_accepted"
	NotificationNewPost            NotificationType = "new_post"
	NotificationReaction           NotificationType = "reaction"
	NotificationComment            NotificationType = "comment"
	NotificationReply              NotificationType = "reply"
	NotificationJobApplication     NotificationType = "job_application"
	NotificationApplicationStatus  NotificationType = "application_status"
	NotificationMessage            NotificationType = "message"
)

// EntityType names the kind of object a notification points at.
type EntityType string

const (
	EntityPost       EntityType = "Post"
	EntityComment    EntityType = "Comment"
	EntityConnection EntityType = "Connection"
	EntityJob        EntityType = "JobOffer"
	EntityMessage    EntityType = "Message"
)

// EntityRef points at the object a notification is about. IDs are strings
// because entities live in both PostgreSQL and MongoDB.
type EntityRef struct {
	ID   string     `json:"id"`
	Type EntityType `json:"type"`
}

// Notification represents an account notification (PostgreSQL)
type Notification struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	ReceiverID   uint             `json:"-" gorm:"index:idx_notification_receiver"`
	ReceiverType AccountType      `json:"-" gorm:"size:20;index:idx_notification_receiver"`
	SenderID     uint             `json:"-" gorm:"index"`
	SenderType   AccountType      `json:"-" gorm:"size:20"`
	Type         NotificationType `json:"type" gorm:"size:30;index"`
	EntityID     string           `json:"-" gorm:"size:64"`
	EntityType   EntityType       `json:"-" gorm:"size:20"`
	IsRead       bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt    time.Time        `json:"created_at" gorm:"index"`
}

func (n *Notification) Receiver() AccountRef {
	return AccountRef{ID: n.ReceiverID, Type: n.ReceiverType}
}

func (n *Notification) Sender() AccountRef {
	return AccountRef{ID: n.SenderID, Type: n.SenderType}
}

func (n *Notification) Entity() EntityRef {
	return EntityRef{ID: n.EntityID, Type: n.EntityType}
}

// NewNotification builds an unsaved, unread notification.
func NewNotification(receiver, sender AccountRef, kind NotificationType, entity EntityRef) *Notification {
	return &Notification{
		ReceiverID:   receiver.ID,
		ReceiverType: receiver.Type,
		SenderID:     sender.ID,
		SenderType:   sender.Type,
		Type:         kind,
		EntityID:     entity.ID,
		EntityType:   entity.Type,
	}
}

// NotificationView is the API shape of a notification with its sender resolved.
type NotificationView struct {
	ID        uint             `json:"id"`
	Type      NotificationType `json:"type"`
	Receiver  AccountRef       `json:"receiver"`
	Sender    AccountSummary   `json:"sender"`
	Entity    EntityRef        `json:"entity"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
