package handlers

import (
	"net/http"

	"github.com/anonto42/proconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles company follow/unfollow HTTP requests
type FollowHandler struct {
	accounts *services.AccountService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(accounts *services.AccountService) *FollowHandler {
	return &FollowHandler{accounts: accounts}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/companies/:id/follow", h.FollowCompany)
	g.DELETE("/companies/:id/follow", h.UnfollowCompany)
	g.GET("/companies/:id/followers/count", h.CountFollowers)
	g.GET("/following/companies", h.ListFollowedCompanies)
}

// FollowCompany follows a company
func (h *FollowHandler) FollowCompany(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	companyID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.accounts.FollowCompany(c.Request().Context(), actor, companyID); err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, echo.Map{"message": "Company followed"})
}

// UnfollowCompany removes a company follow
func (h *FollowHandler) UnfollowCompany(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	companyID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.accounts.UnfollowCompany(c.Request().Context(), actor, companyID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FollowHandler) CountFollowers(c echo.Context) error {
	companyID, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	count, err := h.accounts.CountFollowers(c.Request().Context(), companyID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"followers": count})
}

// ListFollowedCompanies lists the companies the authenticated user follows
func (h *FollowHandler) ListFollowedCompanies(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	if !actor.IsUser() {
		return httpError(services.ErrUsersOnly)
	}

	companies, err := h.accounts.ListFollowedCompanies(c.Request().Context(), actor.ID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, companies)
}
