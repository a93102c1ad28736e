package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CommentService manages comments and single-level replies.
type CommentService struct {
	comments  repositories.CommentRepository
	posts     repositories.PostRepository
	reactions repositories.ReactionRepository
	directory *AccountDirectory
	notifier  *NotificationService
	effects   *SideEffects
	logger    *zap.Logger
}

func NewCommentService(
	comments repositories.CommentRepository,
	posts repositories.PostRepository,
	reactions repositories.ReactionRepository,
	directory *AccountDirectory,
	notifier *NotificationService,
	effects *SideEffects,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		comments:  comments,
		posts:     posts,
		reactions: reactions,
		directory: directory,
		notifier:  notifier,
		effects:   effects,
		logger:    logger,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, actor models.AccountRef, postID primitive.ObjectID, req models.CreateCommentRequest) (*models.CommentView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, storeError("post", err)
	}

	placement := models.TopLevel()
	var parent *models.Comment
	if req.ParentID != "" {
		parentID, err := ParseObjectID(req.ParentID)
		if err != nil {
			return nil, err
		}
		parent, err = s.comments.GetCommentByID(ctx, parentID)
		if err != nil {
			return nil, storeError("parent comment", err)
		}
		if parent.PostID != postID {
			return nil, fmt.Errorf("%w: parent comment belongs to another post", ErrValidation)
		}
		placement = models.PlacementFor(parent)
	}

	comment := &models.Comment{
		PostID:  postID,
		Author:  actor,
		Content: content,
	}
	root, isReply := placement.Root()
	if isReply {
		comment.ParentID = &root
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	fields := []zap.Field{zap.String("comment_id", comment.ID.Hex()), zap.String("post_id", postID.Hex())}
	s.effects.Run(ctx, "increment post comments", func(ctx context.Context) error {
		return s.posts.IncrementComments(ctx, postID, 1)
	}, fields...)
	if isReply {
		s.effects.Run(ctx, "increment replies", func(ctx context.Context) error {
			return s.comments.IncrementReplies(ctx, root, 1)
		}, fields...)
	}

	entity := models.EntityRef{ID: comment.ID.Hex(), Type: models.EntityComment}
	s.effects.Run(ctx, "notify post author", func(ctx context.Context) error {
		_, err := s.notifier.Notify(ctx, post.Author, actor, models.NotificationComment, entity)
		return err
	}, fields...)
	if parent != nil && parent.Author != post.Author && parent.Author != actor {
		s.effects.Run(ctx, "notify parent author", func(ctx context.Context) error {
			_, err := s.notifier.Notify(ctx, parent.Author, actor, models.NotificationReply, entity)
			return err
		}, fields...)
	}

	return &models.CommentView{Comment: *comment, AuthorDetails: s.directory.SummaryOrStub(ctx, actor)}, nil
}

func (s *CommentService) views(ctx context.Context, comments []models.Comment) []models.CommentView {
	out := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		out = append(out, models.CommentView{
			Comment:       comments[i],
			AuthorDetails: s.directory.SummaryOrStub(ctx, comments[i].Author),
		})
	}
	return out
}

// ListComments returns top-level comments newest first.
func (s *CommentService) ListComments(ctx context.Context, postID primitive.ObjectID, page models.Page) ([]models.CommentView, models.Pagination, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, models.Pagination{}, storeError("post", err)
	}
	comments, err := s.comments.ListTopLevel(ctx, postID, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list comments: %w", err)
	}
	total, err := s.comments.CountTopLevel(ctx, postID)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("count comments: %w", err)
	}
	return s.views(ctx, comments), models.NewPagination(page, total), nil
}

func (s *CommentService) ListReplies(ctx context.Context, commentID primitive.ObjectID) ([]models.CommentView, error) {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, storeError("comment", err)
	}
	rootID := comment.ID
	if comment.ParentID != nil {
		rootID = *comment.ParentID
	}
	replies, err := s.comments.ListReplies(ctx, rootID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	return s.views(ctx, replies), nil
}

func (s *CommentService) UpdateComment(ctx context.Context, actor models.AccountRef, id primitive.ObjectID, req models.UpdateCommentRequest) (*models.CommentView, error) {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return nil, storeError("comment", err)
	}
	if comment.Author != actor {
		return nil, ErrNotOwner
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	updated, err := s.comments.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, storeError("comment", err)
	}
	return &models.CommentView{Comment: *updated, AuthorDetails: s.directory.SummaryOrStub(ctx, actor)}, nil
}

// DeleteComment is allowed to the comment author and the post author. A
// top-level comment takes its replies with it; reactions on all of them are
// removed and the post counter drops by the number of deleted comments.
func (s *CommentService) DeleteComment(ctx context.Context, actor models.AccountRef, id primitive.ObjectID) error {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return storeError("comment", err)
	}
	if comment.Author != actor {
		post, err := s.posts.GetPostByID(ctx, comment.PostID)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ErrNotOwner
		case err != nil:
			return storeError("post", err)
		case post.Author != actor:
			return ErrNotOwner
		}
	}

	ids := []primitive.ObjectID{id}
	if !comment.IsReply() {
		replyIDs, err := s.comments.ListReplyIDs(ctx, id)
		if err != nil {
			return fmt.Errorf("list replies: %w", err)
		}
		ids = append(ids, replyIDs...)
	}

	if _, err := s.reactions.DeleteByTargets(ctx, ids, models.TargetComment); err != nil {
		return fmt.Errorf("delete comment reactions: %w", err)
	}
	deleted, err := s.comments.DeleteMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}

	fields := []zap.Field{zap.String("comment_id", id.Hex()), zap.Int64("deleted", deleted)}
	if deleted > 0 {
		s.effects.Run(ctx, "decrement post comments", func(ctx context.Context) error {
			return s.posts.IncrementComments(ctx, comment.PostID, -deleted)
		}, fields...)
	}
	if comment.IsReply() {
		s.effects.Run(ctx, "decrement replies", func(ctx context.Context) error {
			return s.comments.IncrementReplies(ctx, *comment.ParentID, -1)
		}, fields...)
	}
	return nil
}
