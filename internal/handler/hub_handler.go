package handler

import (
	"net/http"

	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /hubs の公開API（シッパー登録時の選択肢に使う）
type HubHandler struct {
	uc *usecase.HubUsecase
}

func NewHubHandler(uc *usecase.HubUsecase) *HubHandler {
	return &HubHandler{uc: uc}
}

func (h *HubHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/hubs", h.list)
}

func (h *HubHandler) list(c echo.Context) error {
	out, err := h.uc.ListHubs(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
