package handlers

import (
	"net/http"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/accounts/:type/:id/posts", h.ListPostsByAuthor)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.CreatePost(c.Request().Context(), actor, req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	viewer, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	post, err := h.posts.GetPost(c.Request().Context(), viewer, id)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, post)
}

// ListPostsByAuthor lists one account's posts, newest first
func (h *PostHandler) ListPostsByAuthor(c echo.Context) error {
	viewer, err := currentAccount(c)
	if err != nil {
		return err
	}
	author, err := accountParam(c)
	if err != nil {
		return err
	}

	posts, pagination, err := h.posts.ListPostsByAuthor(c.Request().Context(), viewer, author, pageQuery(c, models.DefaultPageLimit))
	if err != nil {
		return httpError(err)
	}
	return paginated(c, posts, pagination)
}

// UpdatePost updates the content of an existing post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.UpdatePost(c.Request().Context(), actor, id, req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, post)
}

// DeletePost deletes a post together with its comments and reactions
func (h *PostHandler) DeletePost(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.posts.DeletePost(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
