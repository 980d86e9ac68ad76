package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
)

type UserHandler struct {
	pageBase
	gateway ports.UserGateway
}

func NewUserHandler(session ports.SessionStore, gateway ports.UserGateway, log zerolog.Logger) *UserHandler {
	return &UserHandler{pageBase: pageBase{session: session, log: log}, gateway: gateway}
}

func (h *UserHandler) List(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	return h.render(c, s, http.StatusOK, "")
}

func (h *UserHandler) Create(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req userForm
	if err := c.Bind(&req); err != nil {
		return h.render(c, s, http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		return h.render(c, s, http.StatusBadRequest, validationMessage(err))
	}

	acc, err := h.gateway.CreateUser(c.Request().Context(), s.Token(), toNewAccount(req))
	if err != nil {
		if msg, ok := rejection(err); ok {
			return h.render(c, s, http.StatusBadRequest, msg)
		}
		return h.backendFailure(c, err)
	}

	h.log.Info().Str("username", acc.Username).Str("role", acc.Role).Msg("user created")
	return seeOther(c, "/users", "User "+acc.Username+" created")
}

func (h *UserHandler) Delete(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.gateway.DeleteUser(c.Request().Context(), s.Token(), id); err != nil {
		if msg, ok := rejection(err); ok {
			return h.render(c, s, http.StatusBadRequest, msg)
		}
		return h.backendFailure(c, err)
	}
	return seeOther(c, "/users", "User deleted")
}

func (h *UserHandler) render(c echo.Context, s domain.Session, status int, formErr string) error {
	users, err := h.gateway.ListUsers(c.Request().Context(), s.Token())
	if err != nil {
		return h.backendFailure(c, err)
	}
	p := h.page(c, "Users", users)
	p.Error = formErr
	return c.Render(status, "users", p)
}
