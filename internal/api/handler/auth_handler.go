package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/api/metrics"
	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
)

const (
	msgInvalidLogin = "Invalid username or password"
	msgLoginFailed  = "Signed in, but the session could not be saved. Please try again."
	homePath        = "/dashboard"
)

type AuthHandler struct {
	session ports.SessionStore
	log     zerolog.Logger
}

func NewAuthHandler(session ports.SessionStore, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{session: session, log: log}
}

// LoginPage renders the sign-in form. Operators who are already signed in go
// straight to the dashboard.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if h.session.Snapshot().Authenticated() {
		return c.Redirect(http.StatusFound, homePath)
	}
	return c.Render(http.StatusOK, "login", Page{Title: "Sign in"})
}

// Login handles the sign-in form submission.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginForm
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "login", Page{Title: "Sign in", Error: msgInvalidLogin})
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusBadRequest, "login", Page{Title: "Sign in", Error: validationMessage(err)})
	}

	status, msg := h.login(c, req)
	if status != http.StatusOK {
		return c.Render(status, "login", Page{Title: "Sign in", Error: msg})
	}
	return c.Redirect(http.StatusFound, homePath)
}

// Logout clears the session and returns to the sign-in page.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.session.Logout(c.Request().Context())
	metrics.LogoutsTotal.Inc()
	return c.Redirect(http.StatusFound, "/login")
}

// Home sends the root path to the dashboard.
func (h *AuthHandler) Home(c echo.Context) error {
	return c.Redirect(http.StatusFound, homePath)
}

// GetSession reports the current session without its credential.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *AuthHandler) GetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// CreateSession logs in with a JSON body.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginForm  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Router       /api/session [post]
func (h *AuthHandler) CreateSession(c echo.Context) error {
	var req loginForm
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: validationMessage(err)})
	}

	status, msg := h.login(c, req)
	if status != http.StatusOK {
		return c.JSON(status, errorBody{Error: msg})
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// DeleteSession logs out.
//
// @Summary      Logout
// @Tags         session
// @Success      204
// @Router       /api/session [delete]
func (h *AuthHandler) DeleteSession(c echo.Context) error {
	h.session.Logout(c.Request().Context())
	metrics.LogoutsTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// login runs the store login and maps the outcome to a status and message.
func (h *AuthHandler) login(c echo.Context, req loginForm) (int, string) {
	identity, err := h.session.Login(c.Request().Context(), req.Username, req.Password)
	switch {
	case err == nil:
		metrics.LoginsTotal.WithLabelValues("success").Inc()
		h.log.Info().
			Str("username", identity.Username).
			Str("role", string(identity.Role)).
			Msg("operator logged in")
		return http.StatusOK, ""
	case errors.Is(err, domain.ErrAuthentication):
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		h.log.Info().Str("username", req.Username).Msg("login rejected")
		return http.StatusUnauthorized, msgInvalidLogin
	default:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Str("username", req.Username).Msg("login failed")
		return http.StatusInternalServerError, msgLoginFailed
	}
}
