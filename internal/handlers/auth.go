package handlers

import (
	"net/http"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	accounts *services.AccountService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup/user", h.SignupUser)
	g.POST("/signup/company", h.SignupCompany)
	g.POST("/signin", h.SignIn)
	g.POST("/external-login", h.ExternalLogin)
}

// SignupUser handles local user registration with email and password
func (h *AuthHandler) SignupUser(c echo.Context) error {
	var req models.CreateLocalUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.accounts.SignupUser(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, resp)
}

// SignupCompany registers a company account
func (h *AuthHandler) SignupCompany(c echo.Context) error {
	var req models.CreateCompanyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.accounts.SignupCompany(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, resp)
}

// SignIn authenticates either kind of account by email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.accounts.SignIn(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, resp)
}

// ExternalLogin exchanges an identity provider ID token for a local token
func (h *AuthHandler) ExternalLogin(c echo.Context) error {
	var req models.ExternalLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.accounts.ExternalLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, resp)
}
