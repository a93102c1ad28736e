package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaPDF   MediaType = "pdf"
)

type Media struct {
	Type MediaType `json:"type" bson:"type" validate:"required,oneof=image video pdf"`
	URL  string    `json:"url" bson:"url" validate:"required"`
}

// Post represents a post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Author        AccountRef         `json:"author" bson:"author"`
	Content       string             `json:"content" bson:"content"`
	Media         []Media            `json:"media,omitempty" bson:"media,omitempty"`
	LikesCount    int64              `json:"likes_count" bson:"likes_count"`
	CommentsCount int64              `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string  `json:"content" validate:"required,min=1,max=3000"`
	Media   []Media `json:"media,omitempty" validate:"omitempty,max=10,dive"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=3000"`
}

// PostView is a post with its author resolved and the viewer's own reaction.
type PostView struct {
	Post
	AuthorDetails AccountSummary `json:"author_details"`
	UserReaction  *ReactionType  `json:"user_reaction"`
}
