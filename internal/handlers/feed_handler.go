package handlers

import (
	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed *services.FeedService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns the decorated feed for the current account
func (h *FeedHandler) GetFeed(c echo.Context) error {
	viewer, err := currentAccount(c)
	if err != nil {
		return err
	}

	page, err := h.feed.GetUserFeed(c.Request().Context(), viewer, pageQuery(c, models.DefaultPageLimit))
	if err != nil {
		return httpError(err)
	}
	return paginated(c, page.Posts, page.Pagination)
}
