package handlers

import (
	"net/http"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ConnectionHandler handles connection requests between users
type ConnectionHandler struct {
	connections *services.ConnectionService
}

func NewConnectionHandler(connections *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connections: connections}
}

// RegisterConnectionRoutes registers connection routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.POST("/connections", h.SendRequest)
	g.PUT("/connections/:id/respond", h.RespondToRequest)
	g.DELETE("/connections/users/:id", h.RemoveConnection)
	g.GET("/connections", h.ListConnections)
	g.GET("/connections/pending", h.ListPendingRequests)
	g.GET("/connections/sent", h.ListSentRequests)
	g.GET("/connections/status/:id", h.ConnectionStatus)
}

// actorUser returns the authenticated account, which must be a user.
func actorUser(c echo.Context) (models.AccountRef, error) {
	actor, err := currentAccount(c)
	if err != nil {
		return actor, err
	}
	if !actor.IsUser() {
		return actor, httpError(services.ErrUsersOnly)
	}
	return actor, nil
}

func (h *ConnectionHandler) SendRequest(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req models.CreateConnectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	conn, err := h.connections.SendConnectionRequest(c.Request().Context(), actor, req.ReceiverID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, conn)
}

func (h *ConnectionHandler) RespondToRequest(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.RespondConnectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	conn, err := h.connections.RespondToRequest(c.Request().Context(), actor, id, req.Status == "accepted")
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, conn)
}

func (h *ConnectionHandler) RemoveConnection(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	other, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.connections.RemoveConnection(c.Request().Context(), actor, other); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ConnectionHandler) ListConnections(c echo.Context) error {
	actor, err := actorUser(c)
	if err != nil {
		return err
	}
	views, err := h.connections.ListConnections(c.Request().Context(), actor.ID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, views)
}

func (h *ConnectionHandler) ListPendingRequests(c echo.Context) error {
	actor, err := actorUser(c)
	if err != nil {
		return err
	}
	views, err := h.connections.ListPendingRequests(c.Request().Context(), actor.ID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, views)
}

func (h *ConnectionHandler) ListSentRequests(c echo.Context) error {
	actor, err := actorUser(c)
	if err != nil {
		return err
	}
	views, err := h.connections.ListSentRequests(c.Request().Context(), actor.ID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, views)
}

func (h *ConnectionHandler) ConnectionStatus(c echo.Context) error {
	actor, err := actorUser(c)
	if err != nil {
		return err
	}
	other, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	status, err := h.connections.ConnectionStatus(c.Request().Context(), actor.ID, other)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, status)
}
