package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/samarth/admin-console/internal/core/ports"
	"github.com/samarth/admin-console/internal/infrastructure/http/handlers"
)

// NewOpsRouter builds the operations listener: probes and Prometheus scrape.
func NewOpsRouter(storage handlers.Pinger, session ports.SessionReader) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// --- Global middleware ---
	e.Use(middleware.Recover())

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(storage, session)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – storage up, session hydrated?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
