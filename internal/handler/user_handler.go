package handler

import (
	"net/http"
	"time"

	"onlinestore/internal/config"
	"onlinestore/internal/middleware"
	"onlinestore/internal/repository"
	"onlinestore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/user
type UserHandler struct {
	uc           *usecase.UserUsecase
	cookieSecure bool
}

// DIコンストラクタ
func NewUserHandler(uc *usecase.UserUsecase, cookieSecure bool) *UserHandler {
	return &UserHandler{uc: uc, cookieSecure: cookieSecure}
}

// 登録/ログインのリクエストボディ。roleは受け取らない。
type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/api/user")
	g.Use(middleware.NoStore())

	g.POST("/registration", h.registration)
	g.POST("/login", h.login)
	g.GET("/auth", h.check, middleware.AuthJWT(cfg.SecretKey), middleware.ActiveUserGuard(userRepo))
}

func (h *UserHandler) registration(c echo.Context) error {
	var req authRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	out, err := h.uc.Registration(c.Request().Context(), usecase.AuthInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return writeError(c, err)
	}

	h.setTokenCookie(c, out.Token)
	return writeCreated(c, out)
}

func (h *UserHandler) login(c echo.Context) error {
	var req authRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	out, err := h.uc.Login(c.Request().Context(), usecase.AuthInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return writeError(c, err)
	}

	h.setTokenCookie(c, out.Token)
	return writeOK(c, out)
}

func (h *UserHandler) check(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	out, err := h.uc.Check(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	h.setTokenCookie(c, out.Token)
	return writeOK(c, out)
}

// httpOnly cookie にトークンを入れる
func (h *UserHandler) setTokenCookie(c echo.Context, token string) {
	ttl := h.uc.TokenTTL()
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
	})
}
