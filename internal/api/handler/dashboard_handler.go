package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/core/ports"
)

type DashboardHandler struct {
	pageBase
	gateway ports.DashboardGateway
}

func NewDashboardHandler(session ports.SessionStore, gateway ports.DashboardGateway, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{pageBase: pageBase{session: session, log: log}, gateway: gateway}
}

func (h *DashboardHandler) Show(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	stats, err := h.gateway.DashboardStats(c.Request().Context(), s.Token())
	if err != nil {
		return h.backendFailure(c, err)
	}
	return c.Render(http.StatusOK, "dashboard", h.page(c, "Dashboard", stats))
}
