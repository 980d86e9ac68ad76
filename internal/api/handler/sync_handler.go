package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
)

type SyncHandler struct {
	queue ports.SyncQueue
}

func NewSyncHandler(queue ports.SyncQueue) *SyncHandler {
	return &SyncHandler{queue: queue}
}

// Enqueue queues a resource for NDU integration sync.
//
// @Summary      Queue NDU sync
// @Tags         sync
// @Produce      json
// @Param        kind  path      string  true  "content or training"
// @Param        id    path      int     true  "Resource ID"
// @Success      202   {object}  syncQueuedResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      503   {object}  errorBody
// @Router       /api/sync/{kind}/{id} [post]
func (h *SyncHandler) Enqueue(c echo.Context) error {
	kind := domain.SyncKind(c.Param("kind"))
	if kind != domain.SyncContent && kind != domain.SyncTraining {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "kind must be content or training"})
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid id"})
	}

	jobID, err := h.queue.Enqueue(ports.SyncJob{Kind: kind, ResourceID: id})
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorBody{Error: err.Error()})
	}
	return c.JSON(http.StatusAccepted, syncQueuedResponse{JobID: jobID})
}
