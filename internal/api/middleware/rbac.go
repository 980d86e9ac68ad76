package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/samarth/admin-console/internal/api/metrics"
	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
	"github.com/samarth/admin-console/internal/core/service"
)

// RBAC is the JSON counterpart of Guard for /api routes: the same decision,
// answered with status codes instead of views.
func RBAC(session ports.SessionReader, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap := session.Snapshot()
			decision := service.Evaluate(snap, allowedRoles)
			metrics.GuardDecisionsTotal.WithLabelValues(decision.String()).Inc()

			switch decision {
			case service.DecisionLoading:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "session loading"})
			case service.DecisionRedirectLogin:
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not logged in"})
			case service.DecisionForbidden:
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}

			c.Set(sessionKey, snap)
			return next(c)
		}
	}
}
