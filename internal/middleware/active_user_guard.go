package middleware

import (
	"errors"
	"net/http"

	"onlinestore/internal/repository"

	"github.com/labstack/echo/v4"
)

// トークンのユーザーがDBに残っているか確認し、roleをDBの値で上書きする。
// AuthJWTの後に置く。
func ActiveUserGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたuser_id を取得する
			userID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON(http.StatusUnauthorized, "Unauthorized"))
			}

			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if errors.Is(err, repository.ErrNotFound) || (err == nil && user == nil) {
				return c.JSON(http.StatusUnauthorized, errorJSON(http.StatusUnauthorized, "Unauthorized"))
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON(http.StatusInternalServerError, "Internal server error"))
			}

			c.Set(CtxUserRoleKey, string(user.Role))
			c.Set(CtxUserEmailKey, user.Email)

			return next(c)
		}
	}
}
