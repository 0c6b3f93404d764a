package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	CachePublicShort = "public, max-age=180"
	CachePublicLong  = "public, max-age=300"
	CacheNoStore     = "no-store, no-cache, must-revalidate, private"
)

// レスポンスにCache-Controlを付ける
func CacheControl(value string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("Cache-Control", value)
			return next(c)
		}
	}
}

// 個人データ。Pragma/Expiresも付ける。
func NoStore() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Cache-Control", CacheNoStore)
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
			return next(c)
		}
	}
}
