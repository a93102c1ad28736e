package handlers

import (
	"net/http"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ReactionHandler toggles reactions on posts, comments and messages
type ReactionHandler struct {
	reactions *services.ReactionService
}

func NewReactionHandler(reactions *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactions: reactions}
}

// RegisterReactionRoutes registers reaction routes for every target kind
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	for prefix, typ := range map[string]models.TargetType{
		"/posts":    models.TargetPost,
		"/comments": models.TargetComment,
		"/messages": models.TargetMessage,
	} {
		path := prefix + "/:id/reactions"
		g.POST(path, h.React, withTarget(typ))
		g.DELETE(path, h.RemoveReaction, withTarget(typ))
		g.GET(path, h.ListReactions, withTarget(typ))
	}
}

const targetTypeKey = "reaction_target_type"

func withTarget(typ models.TargetType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(targetTypeKey, typ)
			return next(c)
		}
	}
}

func reactionTarget(c echo.Context) (models.ReactionTarget, error) {
	typ, ok := c.Get(targetTypeKey).(models.TargetType)
	if !ok {
		return models.ReactionTarget{}, echo.NewHTTPError(http.StatusNotFound, "Unknown reaction target")
	}
	id, err := objectIDParam(c, "id")
	if err != nil {
		return models.ReactionTarget{}, err
	}
	return models.ReactionTarget{ID: id, Type: typ}, nil
}

// React applies the toggle: same type removes, another type switches, none adds
func (h *ReactionHandler) React(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	target, err := reactionTarget(c)
	if err != nil {
		return err
	}

	var req models.ReactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.reactions.React(c.Request().Context(), actor, target, req.ReactionType)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, result)
}

func (h *ReactionHandler) RemoveReaction(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	target, err := reactionTarget(c)
	if err != nil {
		return err
	}

	if err := h.reactions.RemoveReaction(c.Request().Context(), actor, target); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReactionHandler) ListReactions(c echo.Context) error {
	viewer, err := currentAccount(c)
	if err != nil {
		return err
	}
	target, err := reactionTarget(c)
	if err != nil {
		return err
	}

	summary, err := h.reactions.ListReactions(c.Request().Context(), viewer, target)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, summary)
}
