package server

import (
	"marketplace/internal/config"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes は全ハンドラのルートをまとめて登録する。
func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Hub.RegisterRoutes(e)
	h.VendorProduct.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
}
