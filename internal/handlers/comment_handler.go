package handlers

import (
	"net/http"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.ListComments)
	g.GET("/comments/:id/replies", h.ListReplies)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a comment or a reply on a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	postID, err := objectIDParam(c, "post_id")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.CreateComment(c.Request().Context(), actor, postID, req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, comment)
}

// ListComments lists top-level comments of a post, newest first
func (h *CommentHandler) ListComments(c echo.Context) error {
	postID, err := objectIDParam(c, "post_id")
	if err != nil {
		return err
	}

	comments, pagination, err := h.comments.ListComments(c.Request().Context(), postID, pageQuery(c, 20))
	if err != nil {
		return httpError(err)
	}
	return paginated(c, comments, pagination)
}

func (h *CommentHandler) ListReplies(c echo.Context) error {
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	replies, err := h.comments.ListReplies(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, replies)
}

// UpdateComment edits the content of a comment
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.UpdateComment(c.Request().Context(), actor, id, req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, comment)
}

// DeleteComment deletes a comment along with its replies
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.comments.DeleteComment(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
