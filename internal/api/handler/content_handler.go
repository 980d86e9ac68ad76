package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
)

type ContentHandler struct {
	pageBase
	gateway ports.ContentGateway
	queue   ports.SyncQueue
}

func NewContentHandler(session ports.SessionStore, gateway ports.ContentGateway, queue ports.SyncQueue, log zerolog.Logger) *ContentHandler {
	return &ContentHandler{pageBase: pageBase{session: session, log: log}, gateway: gateway, queue: queue}
}

func (h *ContentHandler) List(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	return h.render(c, s, http.StatusOK, "")
}

func (h *ContentHandler) Create(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req contentForm
	if err := c.Bind(&req); err != nil {
		return h.render(c, s, http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		return h.render(c, s, http.StatusBadRequest, validationMessage(err))
	}

	item, err := h.gateway.CreateContent(c.Request().Context(), s.Token(), toContentItem(req))
	if err != nil {
		if msg, ok := rejection(err); ok {
			return h.render(c, s, http.StatusBadRequest, msg)
		}
		return h.backendFailure(c, err)
	}

	h.log.Info().Int("id", item.ID).Str("title", item.Title).Msg("content created")
	return seeOther(c, "/content", "Content added")
}

func (h *ContentHandler) Sync(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.queue.Enqueue(ports.SyncJob{Kind: domain.SyncContent, ResourceID: id}); err != nil {
		h.log.Warn().Err(err).Int("id", id).Msg("sync enqueue failed")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "NDU sync queue is busy, try again shortly")
	}
	return seeOther(c, "/content", "NDU sync queued")
}

func (h *ContentHandler) render(c echo.Context, s domain.Session, status int, formErr string) error {
	items, err := h.gateway.ListContent(c.Request().Context(), s.Token())
	if err != nil {
		return h.backendFailure(c, err)
	}
	p := h.page(c, "Content", items)
	p.Error = formErr
	return c.Render(status, "content", p)
}
