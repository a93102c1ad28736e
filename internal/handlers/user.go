package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler serves user and company profiles
type UserHandler struct {
	accounts *services.AccountService
}

func NewUserHandler(accounts *services.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// RegisterProfileRoutes registers profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile/user", h.UpdateUserProfile)
	g.PUT("/profile/company", h.UpdateCompanyProfile)
	g.GET("/accounts/search", h.SearchAccounts)
	g.GET("/users/:id", h.GetUser)
	g.GET("/companies/:id", h.GetCompany)
	g.GET("/accounts/:type/:id/summary", h.GetAccountSummary)
}

// GetProfile returns the authenticated account's full profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if actor.IsUser() {
		user, err := h.accounts.GetUser(ctx, actor.ID)
		if err != nil {
			return httpError(err)
		}
		return success(c, http.StatusOK, user)
	}
	company, err := h.accounts.GetCompany(ctx, actor.ID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, company)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.accounts.GetUser(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, user)
}

func (h *UserHandler) GetCompany(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	company, err := h.accounts.GetCompany(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, company)
}

func (h *UserHandler) GetAccountSummary(c echo.Context) error {
	ref, err := accountParam(c)
	if err != nil {
		return err
	}
	summary, err := h.accounts.GetAccountSummary(c.Request().Context(), ref)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, summary)
}

// UpdateUserProfile updates the authenticated user's profile
func (h *UserHandler) UpdateUserProfile(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.UpdateUserProfile(c.Request().Context(), actor, req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, user)
}

// UpdateCompanyProfile updates the authenticated company's profile
func (h *UserHandler) UpdateCompanyProfile(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req models.UpdateCompanyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	company, err := h.accounts.UpdateCompanyProfile(c.Request().Context(), actor, req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, company)
}

// SearchAccounts searches users and companies by name, email or headline
func (h *UserHandler) SearchAccounts(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	results, err := h.accounts.SearchAccounts(c.Request().Context(), query)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, results)
}
