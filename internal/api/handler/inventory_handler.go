package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"

	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
)

const qrSize = 256

var exportHeader = []string{"Kit ID", "Name", "Category", "Location", "Status"}

// inventoryView is the inventory page model.
type inventoryView struct {
	Items []domain.InventoryItem
	Query string
}

type InventoryHandler struct {
	pageBase
	gateway ports.InventoryGateway
}

func NewInventoryHandler(session ports.SessionStore, gateway ports.InventoryGateway, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{pageBase: pageBase{session: session, log: log}, gateway: gateway}
}

func (h *InventoryHandler) List(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	return h.render(c, s, http.StatusOK, "")
}

func (h *InventoryHandler) Create(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req inventoryForm
	if err := c.Bind(&req); err != nil {
		return h.render(c, s, http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		return h.render(c, s, http.StatusBadRequest, validationMessage(err))
	}

	item, err := h.gateway.CreateInventory(c.Request().Context(), s.Token(), toInventoryItem(req))
	if err != nil {
		if msg, ok := rejection(err); ok {
			return h.render(c, s, http.StatusBadRequest, msg)
		}
		return h.backendFailure(c, err)
	}

	h.log.Info().Str("kit_id", item.KitID).Int("id", item.ID).Msg("inventory item created")
	return seeOther(c, "/inventory", "Kit "+item.KitID+" added")
}

func (h *InventoryHandler) Delete(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.gateway.DeleteInventory(c.Request().Context(), s.Token(), id); err != nil {
		return h.backendFailure(c, err)
	}
	return seeOther(c, "/inventory", "Kit deleted")
}

// Export streams the inventory as CSV, narrowed by the same q filter as the
// list page. The audit record is best effort: a
// failure to record it does not block the download.
func (h *InventoryHandler) Export(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if err := h.gateway.AuditExport(ctx, s.Token()); err != nil {
		h.log.Warn().Err(err).Msg("audit export record failed")
	}

	items, err := h.gateway.ListInventory(ctx, s.Token())
	if err != nil {
		return h.backendFailure(c, err)
	}
	items = filterInventory(items, c.QueryParam("q"))

	filename := fmt.Sprintf("Inventory_Report_%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write(exportHeader); err != nil {
		return err
	}
	for _, item := range items {
		if err := w.Write([]string{item.KitID, item.Name, item.Category, item.Location(), item.Status}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (h *InventoryHandler) Utilization(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	u, err := h.gateway.Utilization(c.Request().Context(), s.Token())
	if err != nil {
		return h.backendFailure(c, err)
	}
	return c.Render(http.StatusOK, "utilization", h.page(c, "Utilization", u))
}

// QRCode renders the item's QR payload, falling back to its kit ID.
func (h *InventoryHandler) QRCode(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	items, err := h.gateway.ListInventory(c.Request().Context(), s.Token())
	if err != nil {
		return h.backendFailure(c, err)
	}
	item, ok := findItem(items, id)
	if !ok {
		return fmt.Errorf("inventory item %d: %w", id, domain.ErrNotFound)
	}

	payload := item.QRCode
	if payload == "" {
		payload = item.KitID
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, qrSize)
	if err != nil {
		return fmt.Errorf("encode qr for item %d: %w", id, err)
	}
	c.Response().Header().Set("Cache-Control", "private, max-age=300")
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *InventoryHandler) render(c echo.Context, s domain.Session, status int, formErr string) error {
	items, err := h.gateway.ListInventory(c.Request().Context(), s.Token())
	if err != nil {
		return h.backendFailure(c, err)
	}
	q := strings.TrimSpace(c.QueryParam("q"))
	p := h.page(c, "Inventory", inventoryView{Items: filterInventory(items, q), Query: q})
	p.Error = formErr
	return c.Render(status, "inventory", p)
}

func findItem(items []domain.InventoryItem, id int) (domain.InventoryItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return domain.InventoryItem{}, false
}

// filterInventory keeps items whose name or category contains q, ignoring case.
func filterInventory(items []domain.InventoryItem, q string) []domain.InventoryItem {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return items
	}
	out := make([]domain.InventoryItem, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), q) || strings.Contains(strings.ToLower(it.Category), q) {
			out = append(out, it)
		}
	}
	return out
}
