package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/api/handler"
	"github.com/samarth/admin-console/internal/api/middleware"
	"github.com/samarth/admin-console/internal/core/domain"
)

// errorResponse is the canonical error envelope for all /api errors.
type errorResponse struct {
	Error string `json:"error"`
}

type errorView struct {
	Code    int
	Message string
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"error": "<message>"} under /api and an error view elsewhere.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if isAPIRequest(c) {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}
		if rerr := renderErrorPage(c, code, msg); rerr != nil {
			log.Error().Err(rerr).Msg("render error page")
			_ = c.String(code, msg)
		}
	}
}

func isAPIRequest(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

func renderErrorPage(c echo.Context, code int, msg string) error {
	p := handler.Page{Title: http.StatusText(code)}
	if s, ok := middleware.SessionFrom(c); ok {
		p.Identity = s.Identity
	}

	switch code {
	case http.StatusNotFound:
		return c.Render(code, "notfound", p)
	case http.StatusForbidden:
		return c.Render(code, "forbidden", p)
	}
	p.Data = errorView{Code: code, Message: msg}
	return c.Render(code, "error", p)
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrNotLoggedIn):
		return http.StatusUnauthorized, "not logged in"
	}

	// Backend unreachable: the console is fine, its upstream is not.
	var ue *url.Error
	if errors.As(err, &ue) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unreachable")
		return http.StatusBadGateway, "the SAMARTH API is unreachable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
