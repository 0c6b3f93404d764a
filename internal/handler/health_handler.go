package handler

import (
	"net/http"

	"onlinestore/internal/cache"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	cache *cache.Cache
}

func NewHealthHandler(c *cache.Cache) *HealthHandler {
	return &HealthHandler{cache: c}
}

type healthResponse struct {
	OK    bool         `json:"ok"`
	Cache *cache.Stats `json:"cache,omitempty"`
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.health)
}

func (h *HealthHandler) health(c echo.Context) error {
	out := healthResponse{OK: true}
	if h.cache != nil {
		s := h.cache.Stats()
		out.Cache = &s
	}
	return c.JSON(http.StatusOK, out)
}
