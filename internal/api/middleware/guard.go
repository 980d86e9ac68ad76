package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/api/metrics"
	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
	"github.com/samarth/admin-console/internal/core/service"
)

const (
	sessionKey = "session"

	// LoginPath is where unauthenticated navigations are sent.
	LoginPath = "/login"
)

// SessionFrom returns the snapshot the guard admitted the request with.
func SessionFrom(c echo.Context) (domain.Session, bool) {
	s, ok := c.Get(sessionKey).(domain.Session)
	return s, ok
}

// Guard runs the route guard for page navigations. The snapshot is taken once
// per request so the decision and the handler see the same state.
//
//	loading        → 503 + Retry-After, placeholder view
//	redirect_login → 302 /login
//	forbidden      → 403 view
//	render         → next, with the snapshot in the context
func Guard(session ports.SessionReader, log zerolog.Logger, allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap := session.Snapshot()
			decision := service.Evaluate(snap, allowed)
			metrics.GuardDecisionsTotal.WithLabelValues(decision.String()).Inc()

			switch decision {
			case service.DecisionLoading:
				c.Response().Header().Set("Retry-After", "1")
				return c.Render(http.StatusServiceUnavailable, "loading", map[string]any{
					"Title": "Loading",
				})
			case service.DecisionRedirectLogin:
				return c.Redirect(http.StatusFound, LoginPath)
			case service.DecisionForbidden:
				log.Info().
					Str("username", snap.Identity.Username).
					Str("role", string(snap.Identity.Role)).
					Str("path", c.Path()).
					Msg("navigation forbidden")
				return c.Render(http.StatusForbidden, "forbidden", map[string]any{
					"Title":    "Forbidden",
					"Identity": snap.Identity,
				})
			}

			c.Set(sessionKey, snap)
			return next(c)
		}
	}
}
