package server

import (
	"onlinestore/internal/config"
	"onlinestore/internal/handler"
	"onlinestore/internal/repository"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	User   *handler.UserHandler
	Type   *handler.TypeHandler
	Brand  *handler.BrandHandler
	Device *handler.DeviceHandler
	Basket *handler.BasketHandler
	Health *handler.HealthHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	h.Health.RegisterRoutes(e)
	h.User.RegisterRoutes(e, cfg, userRepo)
	h.Type.RegisterRoutes(e, cfg, userRepo)
	h.Brand.RegisterRoutes(e, cfg, userRepo)
	h.Device.RegisterRoutes(e, cfg, userRepo)
	h.Basket.RegisterRoutes(e, cfg, userRepo)
}
