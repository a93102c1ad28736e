package handlers

import (
	"net/http"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// MessageHandler serves direct messages between accounts
type MessageHandler struct {
	messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// RegisterMessageRoutes registers messaging routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages", h.SendMessage)
	g.GET("/messages/conversations", h.ListConversations)
	g.GET("/messages/unread-count", h.UnreadCount)
	g.GET("/messages/:type/:id", h.GetConversation)
	g.PUT("/messages/:type/:id/read", h.MarkConversationRead)
}

func (h *MessageHandler) SendMessage(c echo.Context) error {
	sender, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.messages.SendMessage(c.Request().Context(), sender, req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, msg)
}

// GetConversation pages through the messages exchanged with another account
func (h *MessageHandler) GetConversation(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	other, err := accountParam(c)
	if err != nil {
		return err
	}

	msgs, pagination, err := h.messages.GetConversation(c.Request().Context(), actor, other, pageQuery(c, 30))
	if err != nil {
		return httpError(err)
	}
	return paginated(c, msgs, pagination)
}

// ListConversations returns the inbox
func (h *MessageHandler) ListConversations(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}

	convs, err := h.messages.ListConversations(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, convs)
}

func (h *MessageHandler) MarkConversationRead(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}
	other, err := accountParam(c)
	if err != nil {
		return err
	}

	updated, err := h.messages.MarkConversationRead(c.Request().Context(), actor, other)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"updated": updated})
}

func (h *MessageHandler) UnreadCount(c echo.Context) error {
	actor, err := currentAccount(c)
	if err != nil {
		return err
	}

	count, err := h.messages.UnreadMessagesCount(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"unreadCount": count})
}
