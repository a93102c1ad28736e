package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReactionType string

const (
	ReactionLike      ReactionType = "like"
	ReactionLove      ReactionType = "love"
	ReactionDislike   ReactionType = "dislike"
	ReactionEncourage ReactionType = "encourage"
	ReactionHaha      ReactionType = "haha"
)

var reactionTypes = map[ReactionType]bool{
	ReactionLike:      true,
	ReactionLove:      true,
	ReactionDislike:   true,
	ReactionEncourage: true,
	ReactionHaha:      true,
}

func (t ReactionType) Valid() bool { return reactionTypes[t] }

type TargetType string

const (
	TargetPost    TargetType = "Post"
	TargetComment TargetType = "Comment"
	TargetMessage TargetType = "Message"
)

func (t TargetType) Valid() bool {
	return t == TargetPost || t == TargetComment || t == TargetMessage
}

// ReactionTarget is what a reaction is attached to.
type ReactionTarget struct {
	ID   primitive.ObjectID `json:"id" bson:"id"`
	Type TargetType         `json:"type" bson:"type"`
}

// Reaction by a user (MongoDB). Unique per (target, user).
type Reaction struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Target    ReactionTarget     `json:"target" bson:"target"`
	UserID    uint               `json:"user_id" bson:"user_id"`
	Type      ReactionType       `json:"reaction_type" bson:"reaction_type"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// ReactionState is the per (target, user) state after a toggle.
type ReactionState string

const (
	ReactionStateNone    ReactionState = "NONE"
	ReactionStateReacted ReactionState = "REACTED"
)

type ReactRequest struct {
	ReactionType ReactionType `json:"reaction_type" validate:"required"`
}

// ReactionResult reports the outcome of a toggle.
type ReactionResult struct {
	State    ReactionState `json:"state"`
	Reaction *Reaction     `json:"reaction,omitempty"`
}

// ReactionSummary lists reactions on a target with per-type counts.
type ReactionSummary struct {
	Target    ReactionTarget       `json:"target"`
	Total     int                  `json:"total"`
	Counts    map[ReactionType]int `json:"counts"`
	Reactions []Reaction           `json:"reactions"`
}
