package handler

import (
	"net/http"

	"onlinestore/internal/config"
	"onlinestore/internal/middleware"
	"onlinestore/internal/repository"
	"onlinestore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/type
type TypeHandler struct {
	uc *usecase.TypeUsecase
}

func NewTypeHandler(uc *usecase.TypeUsecase) *TypeHandler {
	return &TypeHandler{uc: uc}
}

type CreateTypeRequest struct {
	Name string `json:"name"`
}

func (h *TypeHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/api/type")
	admin := adminChain(cfg, userRepo)

	g.GET("", h.list, middleware.CacheControl(middleware.CachePublicLong))
	g.GET("/:id", h.get, middleware.CacheControl(middleware.CachePublicLong))
	g.POST("", h.create, admin...)
	g.DELETE("/:id", h.delete, admin...)
}

func (h *TypeHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out)
}

func (h *TypeHandler) get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out)
}

func (h *TypeHandler) create(c echo.Context) error {
	var req CreateTypeRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	out, err := h.uc.Create(c.Request().Context(), usecase.CreateTypeInput{Name: req.Name})
	if err != nil {
		return writeError(c, err)
	}
	return writeCreated(c, out)
}

func (h *TypeHandler) delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return writeOK(c, MessageResponse{Message: "Type deleted"})
}

// /api/brand
type BrandHandler struct {
	uc *usecase.BrandUsecase
}

func NewBrandHandler(uc *usecase.BrandUsecase) *BrandHandler {
	return &BrandHandler{uc: uc}
}

type CreateBrandRequest struct {
	Name    string  `json:"name"`
	Country *string `json:"country"`
}

func (h *BrandHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/api/brand")
	admin := adminChain(cfg, userRepo)

	g.GET("", h.list, middleware.CacheControl(middleware.CachePublicLong))
	g.GET("/:id", h.get, middleware.CacheControl(middleware.CachePublicLong))
	g.POST("", h.create, admin...)
	g.DELETE("/:id", h.delete, admin...)
}

func (h *BrandHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out)
}

func (h *BrandHandler) get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out)
}

func (h *BrandHandler) create(c echo.Context) error {
	var req CreateBrandRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	out, err := h.uc.Create(c.Request().Context(), usecase.CreateBrandInput{Name: req.Name, Country: req.Country})
	if err != nil {
		return writeError(c, err)
	}
	return writeCreated(c, out)
}

func (h *BrandHandler) delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return writeOK(c, MessageResponse{Message: "Brand deleted"})
}

// 管理者だけ
func adminChain(cfg config.Config, userRepo repository.UserRepository) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.NoStore(),
		middleware.AuthJWT(cfg.SecretKey),
		middleware.ActiveUserGuard(userRepo),
		middleware.AdminRoleGuard(),
	}
}
