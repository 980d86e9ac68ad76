package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/api/metrics"
	"github.com/samarth/admin-console/internal/api/middleware"
	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
)

// Page is the data every view is rendered with.
type Page struct {
	Title    string
	Identity *domain.Identity
	Error    string
	Notice   string
	Data     any
}

// pageBase holds what every resource page handler needs.
type pageBase struct {
	session ports.SessionStore
	log     zerolog.Logger
}

// ctxSession extracts the snapshot the guard admitted the request with and
// fails fast before any backend call:
//   - the snapshot must be present (presence proves the guard ran).
//   - it must carry a credential; an identity without one cannot call the API.
func ctxSession(c echo.Context) (domain.Session, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok || s.Identity == nil {
		return domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	if s.Token() == "" {
		return domain.Session{}, echo.NewHTTPError(http.StatusUnauthorized, "session has no credential")
	}
	return s, nil
}

func (b pageBase) page(c echo.Context, title string, data any) Page {
	p := Page{Title: title, Data: data}
	if s, ok := middleware.SessionFrom(c); ok {
		p.Identity = s.Identity
	}
	p.Notice = c.QueryParam("notice")
	return p
}

// backendFailure turns a rejected credential into a logout and a trip back to
// the login page. Every other error goes to the central error handler.
// The logout only happens while the rejected credential is still the live
// one; a login that landed in the meantime is left alone.
func (b pageBase) backendFailure(c echo.Context, err error) error {
	if !errors.Is(err, domain.ErrUnauthorized) {
		return err
	}
	var rejected string
	if s, ok := middleware.SessionFrom(c); ok {
		rejected = s.Token()
	}
	if rejected != "" && b.session.Snapshot().Token() == rejected {
		b.log.Warn().Err(err).Str("path", c.Path()).Msg("backend rejected credential, logging out")
		b.session.Logout(c.Request().Context())
		metrics.LogoutsTotal.Inc()
	} else {
		b.log.Info().Err(err).Str("path", c.Path()).Msg("backend rejected a superseded credential")
	}
	return c.Redirect(http.StatusFound, middleware.LoginPath)
}

// seeOther redirects after a successful form post, optionally with a notice.
func seeOther(c echo.Context, path, notice string) error {
	if notice != "" {
		path += "?notice=" + url.QueryEscape(notice)
	}
	return c.Redirect(http.StatusSeeOther, path)
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// rejection reports whether err is the backend refusing the input, and the
// message to show for it.
func rejection(err error) (string, bool) {
	if !errors.Is(err, domain.ErrInvalidInput) {
		return "", false
	}
	var d interface{ UserDetail() string }
	if errors.As(err, &d) && d.UserDetail() != "" {
		return d.UserDetail(), true
	}
	return "The backend rejected the submitted data.", true
}
