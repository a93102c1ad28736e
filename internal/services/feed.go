package services

import (
	"context"
	"fmt"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/repositories"
)

// FeedPage is one page of a home feed.
type FeedPage struct {
	Posts      []models.PostView `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

// FeedService assembles home feeds from the viewer's own posts, their
// accepted connections' posts and the posts of companies they follow.
type FeedService struct {
	connections repositories.ConnectionRepository
	follows     repositories.CompanyFollowRepository
	posts       *PostService
}

func NewFeedService(connections repositories.ConnectionRepository, follows repositories.CompanyFollowRepository, posts *PostService) *FeedService {
	return &FeedService{connections: connections, follows: follows, posts: posts}
}

func (s *FeedService) GetUserFeed(ctx context.Context, viewer models.AccountRef, page models.Page) (*FeedPage, error) {
	scopes, err := s.scopes(ctx, viewer)
	if err != nil {
		return nil, err
	}
	posts, pagination, err := s.posts.page(ctx, viewer, scopes, page)
	if err != nil {
		return nil, err
	}
	return &FeedPage{Posts: posts, Pagination: pagination}, nil
}

// scopes always includes the viewer, so the query is never empty.
func (s *FeedService) scopes(ctx context.Context, viewer models.AccountRef) ([]repositories.AuthorScope, error) {
	self := repositories.AuthorScope{Type: viewer.Type, IDs: []uint{viewer.ID}}
	if !viewer.IsUser() {
		return []repositories.AuthorScope{self}, nil
	}

	connected, err := s.connections.GetAcceptedConnectionIDs(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve connections: %w", err)
	}
	followed, err := s.follows.GetFollowedCompanyIDs(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve follows: %w", err)
	}

	return []repositories.AuthorScope{
		self,
		{Type: models.AccountUser, IDs: connected},
		{Type: models.AccountCompany, IDs: followed},
	}, nil
}
