package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
)

type TrainingHandler struct {
	pageBase
	gateway ports.TrainingGateway
	queue   ports.SyncQueue
}

func NewTrainingHandler(session ports.SessionStore, gateway ports.TrainingGateway, queue ports.SyncQueue, log zerolog.Logger) *TrainingHandler {
	return &TrainingHandler{pageBase: pageBase{session: session, log: log}, gateway: gateway, queue: queue}
}

func (h *TrainingHandler) List(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	return h.render(c, s, http.StatusOK, "")
}

func (h *TrainingHandler) Create(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req trainingForm
	if err := c.Bind(&req); err != nil {
		return h.render(c, s, http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		return h.render(c, s, http.StatusBadRequest, validationMessage(err))
	}

	t, err := h.gateway.CreateTraining(c.Request().Context(), s.Token(), toTraining(req))
	if err != nil {
		if msg, ok := rejection(err); ok {
			return h.render(c, s, http.StatusBadRequest, msg)
		}
		return h.backendFailure(c, err)
	}

	h.log.Info().Int("id", t.ID).Str("title", t.Title).Msg("training scheduled")
	return seeOther(c, "/training", "Training scheduled")
}

func (h *TrainingHandler) Delete(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.gateway.DeleteTraining(c.Request().Context(), s.Token(), id); err != nil {
		return h.backendFailure(c, err)
	}
	return seeOther(c, "/training", "Training deleted")
}

func (h *TrainingHandler) Sync(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if _, err := h.queue.Enqueue(ports.SyncJob{Kind: domain.SyncTraining, ResourceID: id}); err != nil {
		h.log.Warn().Err(err).Int("id", id).Msg("sync enqueue failed")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "NDU sync queue is busy, try again shortly")
	}
	return seeOther(c, "/training", "NDU sync queued")
}

func (h *TrainingHandler) render(c echo.Context, s domain.Session, status int, formErr string) error {
	items, err := h.gateway.ListTrainings(c.Request().Context(), s.Token())
	if err != nil {
		return h.backendFailure(c, err)
	}
	p := h.page(c, "Training", items)
	p.Error = formErr
	return c.Render(status, "training", p)
}
