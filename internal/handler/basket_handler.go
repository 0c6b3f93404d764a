package handler

import (
	"net/http"

	"onlinestore/internal/config"
	"onlinestore/internal/middleware"
	"onlinestore/internal/repository"
	"onlinestore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/basketのHTTP
type BasketHandler struct {
	uc *usecase.BasketUsecase
}

// DI
func NewBasketHandler(uc *usecase.BasketUsecase) *BasketHandler {
	return &BasketHandler{uc: uc}
}

type AddBasketRequest struct {
	DeviceID flexInt `json:"deviceId"`
	Quantity flexInt `json:"quantity"`
}

type UpdateBasketRequest struct {
	Quantity flexInt `json:"quantity"`
}

type ClearBasketResponse struct {
	Message           string `json:"message"`
	DeletedItemsCount int64  `json:"deletedItemsCount"`
}

// /api/basket 以下を登録
func (h *BasketHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/api/basket")
	g.Use(middleware.NoStore())
	g.Use(middleware.AuthJWT(cfg.SecretKey))
	g.Use(middleware.ActiveUserGuard(userRepo))

	g.GET("", h.getBasket)
	g.GET("/", h.getBasket)
	g.POST("/add", h.addDevice)
	g.DELETE("/remove/:deviceId", h.removeDevice)
	g.PUT("/update/:deviceId", h.updateQuantity)
	g.DELETE("/clear", h.clearBasket)
}

func (h *BasketHandler) getBasket(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	out, err := h.uc.GetBasket(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out)
}

func (h *BasketHandler) addDevice(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req AddBasketRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	out, err := h.uc.AddItem(c.Request().Context(), userID, usecase.AddBasketItemInput{
		DeviceID: req.DeviceID.Or(0),
		Quantity: req.Quantity.Or(1),
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out)
}

func (h *BasketHandler) removeDevice(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	deviceID, valid := parseID(c.Param("deviceId"))
	if !valid {
		return writeError(c, usecase.NewValidationError("deviceId is required", nil))
	}

	if err := h.uc.RemoveItem(c.Request().Context(), userID, deviceID); err != nil {
		return writeError(c, err)
	}
	return writeOK(c, MessageResponse{Message: "Device removed from basket successfully"})
}

func (h *BasketHandler) updateQuantity(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	deviceID, valid := parseID(c.Param("deviceId"))
	if !valid {
		return writeError(c, usecase.NewValidationError("deviceId is required", nil))
	}

	var req UpdateBasketRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	out, err := h.uc.UpdateQuantity(c.Request().Context(), userID, deviceID, req.Quantity.Or(0))
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out)
}

func (h *BasketHandler) clearBasket(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	n, err := h.uc.ClearBasket(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, ClearBasketResponse{
		Message:           "Basket cleared successfully",
		DeletedItemsCount: n,
	})
}
