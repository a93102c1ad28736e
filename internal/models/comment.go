package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment on a post (MongoDB). Replies carry the id of their top-level
// ancestor in ParentID; there is never more than one level of nesting.
type Comment struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	PostID       primitive.ObjectID  `json:"post_id" bson:"post_id"`
	Author       AccountRef          `json:"author" bson:"author"`
	ParentID     *primitive.ObjectID `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Content      string              `json:"content" bson:"content"`
	LikesCount   int64               `json:"likes_count" bson:"likes_count"`
	RepliesCount int64               `json:"replies_count" bson:"replies_count"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" bson:"updated_at"`
}

func (c *Comment) IsReply() bool { return c.ParentID != nil }

// Placement says where a new comment goes: directly on the post, or under a
// top-level comment. The zero value is top-level.
type Placement struct {
	root *primitive.ObjectID
}

func TopLevel() Placement { return Placement{} }

// ReplyUnder places a comment under the given top-level comment.
func ReplyUnder(root primitive.ObjectID) Placement { return Placement{root: &root} }

// PlacementFor computes the placement of a reply to target, flattening
// replies-to-replies under the same top-level ancestor.
func PlacementFor(target *Comment) Placement {
	if target.ParentID != nil {
		return ReplyUnder(*target.ParentID)
	}
	return ReplyUnder(target.ID)
}

// Root returns the top-level comment id and true for replies.
func (p Placement) Root() (primitive.ObjectID, bool) {
	if p.root == nil {
		return primitive.NilObjectID, false
	}
	return *p.root, true
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=1000"`
	ParentID string `json:"parent_id,omitempty" validate:"omitempty,len=24,hexadecimal"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

type CommentView struct {
	Comment
	AuthorDetails AccountSummary `json:"author_details"`
}
