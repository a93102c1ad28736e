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

// PostService creates, reads and deletes posts and fans out new-post
// notifications.
type PostService struct {
	posts       repositories.PostRepository
	comments    repositories.CommentRepository
	reactions   repositories.ReactionRepository
	connections repositories.ConnectionRepository
	follows     repositories.CompanyFollowRepository
	directory   *AccountDirectory
	notifier    *NotificationService
	trending    *TrendingService
	effects     *SideEffects
	logger      *zap.Logger
}

func NewPostService(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	reactions repositories.ReactionRepository,
	connections repositories.ConnectionRepository,
	follows repositories.CompanyFollowRepository,
	directory *AccountDirectory,
	notifier *NotificationService,
	trending *TrendingService,
	effects *SideEffects,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		posts:       posts,
		comments:    comments,
		reactions:   reactions,
		connections: connections,
		follows:     follows,
		directory:   directory,
		notifier:    notifier,
		trending:    trending,
		effects:     effects,
		logger:      logger,
	}
}

// ParseObjectID converts a hex id from a request.
func ParseObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

func (s *PostService) CreatePost(ctx context.Context, author models.AccountRef, req models.CreatePostRequest) (*models.PostView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	for _, m := range req.Media {
		switch m.Type {
		case models.MediaImage, models.MediaVideo, models.MediaPDF:
		default:
			return nil, fmt.Errorf("%w: unsupported media type %q", ErrValidation, m.Type)
		}
	}

	post := &models.Post{
		Author:  author,
		Content: content,
		Media:   req.Media,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	entity := models.EntityRef{ID: post.ID.Hex(), Type: models.EntityPost}
	s.effects.Run(ctx, "notify new post", func(ctx context.Context) error {
		receivers, err := s.audience(ctx, author)
		if err != nil {
			return err
		}
		return s.notifier.NotifyMany(ctx, receivers, author, models.NotificationNewPost, entity)
	}, zap.String("post_id", entity.ID))
	s.effects.Run(ctx, "index hashtags", func(ctx context.Context) error {
		return s.trending.IndexPost(ctx, post.Content, post.CreatedAt)
	}, zap.String("post_id", entity.ID))

	views := s.decorate(ctx, author, []models.Post{*post})
	return &views[0], nil
}

// audience resolves who hears about a new post: accepted connections for a
// user, followers for a company.
func (s *PostService) audience(ctx context.Context, author models.AccountRef) ([]models.AccountRef, error) {
	var ids []uint
	var err error
	switch author.Type {
	case models.AccountUser:
		ids, err = s.connections.GetAcceptedConnectionIDs(ctx, author.ID)
	case models.AccountCompany:
		ids, err = s.follows.GetFollowerIDs(ctx, author.ID)
	default:
		return nil, ErrValidation
	}
	if err != nil {
		return nil, fmt.Errorf("resolve audience: %w", err)
	}

	refs := make([]models.AccountRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, models.UserRef(id))
	}
	return refs, nil
}

func (s *PostService) GetPost(ctx context.Context, viewer models.AccountRef, id primitive.ObjectID) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, storeError("post", err)
	}
	views := s.decorate(ctx, viewer, []models.Post{*post})
	return &views[0], nil
}

func (s *PostService) ListPostsByAuthor(ctx context.Context, viewer, author models.AccountRef, page models.Page) ([]models.PostView, models.Pagination, error) {
	if err := s.directory.Exists(ctx, author); err != nil {
		return nil, models.Pagination{}, err
	}
	scopes := []repositories.AuthorScope{{Type: author.Type, IDs: []uint{author.ID}}}
	return s.page(ctx, viewer, scopes, page)
}

// page runs the list and count queries for scopes and decorates the result.
func (s *PostService) page(ctx context.Context, viewer models.AccountRef, scopes []repositories.AuthorScope, page models.Page) ([]models.PostView, models.Pagination, error) {
	posts, err := s.posts.ListByAuthors(ctx, scopes, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list posts: %w", err)
	}
	total, err := s.posts.CountByAuthors(ctx, scopes)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("count posts: %w", err)
	}
	return s.decorate(ctx, viewer, posts), models.NewPagination(page, total), nil
}

// decorate attaches the author card and the viewer's own reaction, one lookup
// per post.
func (s *PostService) decorate(ctx context.Context, viewer models.AccountRef, posts []models.Post) []models.PostView {
	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		view := models.PostView{
			Post:          posts[i],
			AuthorDetails: s.directory.SummaryOrStub(ctx, posts[i].Author),
		}
		if viewer.IsUser() {
			target := models.ReactionTarget{ID: posts[i].ID, Type: models.TargetPost}
			r, err := s.reactions.Get(ctx, target, viewer.ID)
			switch {
			case err == nil:
				t := r.Type
				view.UserReaction = &t
			case !errors.Is(err, repositories.ErrNotFound):
				s.logger.Warn("viewer reaction lookup failed", zap.String("post_id", posts[i].ID.Hex()), zap.Error(err))
			}
		}
		views = append(views, view)
	}
	return views
}

func (s *PostService) UpdatePost(ctx context.Context, actor models.AccountRef, id primitive.ObjectID, req models.UpdatePostRequest) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, storeError("post", err)
	}
	if post.Author != actor {
		return nil, ErrNotOwner
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	updated, err := s.posts.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, storeError("post", err)
	}
	views := s.decorate(ctx, actor, []models.Post{*updated})
	return &views[0], nil
}

// DeletePost removes the post with its comments and every reaction on
// either. Children go first so a failed delete can be retried.
func (s *PostService) DeletePost(ctx context.Context, actor models.AccountRef, id primitive.ObjectID) error {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return storeError("post", err)
	}
	if post.Author != actor {
		return ErrNotOwner
	}

	commentIDs, err := s.comments.ListIDsByPost(ctx, id)
	if err != nil {
		return fmt.Errorf("list post comments: %w", err)
	}
	if _, err := s.reactions.DeleteByTargets(ctx, commentIDs, models.TargetComment); err != nil {
		return fmt.Errorf("delete comment reactions: %w", err)
	}
	if _, err := s.reactions.DeleteByTargets(ctx, []primitive.ObjectID{id}, models.TargetPost); err != nil {
		return fmt.Errorf("delete post reactions: %w", err)
	}
	if _, err := s.comments.DeleteByPost(ctx, id); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return storeError("post", err)
	}

	s.logger.Info("post deleted",
		zap.String("post_id", id.Hex()),
		zap.Int("comments", len(commentIDs)),
	)
	return nil
}
