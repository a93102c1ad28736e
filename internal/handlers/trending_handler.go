package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/proconnect/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type TrendingHandler struct {
	trending *services.TrendingService
}

func NewTrendingHandler(trending *services.TrendingService) *TrendingHandler {
	return &TrendingHandler{trending: trending}
}

func (h *TrendingHandler) RegisterTrendingRoutes(g *echo.Group) {
	g.GET("/trending", h.TopTopics)
}

// TopTopics returns the most used hashtags over ?days= (1-7) days.
func (h *TrendingHandler) TopTopics(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	topics, err := h.trending.TopTopics(c.Request().Context(), days, limit)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, topics)
}
