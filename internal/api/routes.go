package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/samarth/admin-console/internal/api/handler"
	"github.com/samarth/admin-console/internal/core/domain"
)

// anyRole admits every authenticated operator.
var anyRole []domain.Role

var superAdminOnly = []domain.Role{domain.RoleSuperAdmin}

// route is one guarded page route. The allow-list is fixed at startup and
// never persisted.
type route struct {
	method  string
	path    string
	allowed []domain.Role
	handle  echo.HandlerFunc
}

type pageHandlers struct {
	dashboard *handler.DashboardHandler
	inventory *handler.InventoryHandler
	training  *handler.TrainingHandler
	content   *handler.ContentHandler
	users     *handler.UserHandler
}

// pageRoutes is the console's route table.
func pageRoutes(h pageHandlers) []route {
	return []route{
		{http.MethodGet, "/dashboard", anyRole, h.dashboard.Show},

		{http.MethodGet, "/inventory", anyRole, h.inventory.List},
		{http.MethodPost, "/inventory", anyRole, h.inventory.Create},
		{http.MethodPost, "/inventory/:id/delete", anyRole, h.inventory.Delete},
		{http.MethodGet, "/inventory/export.csv", anyRole, h.inventory.Export},
		{http.MethodGet, "/inventory/utilization", anyRole, h.inventory.Utilization},
		{http.MethodGet, "/inventory/:id/qr.png", anyRole, h.inventory.QRCode},

		{http.MethodGet, "/training", anyRole, h.training.List},
		{http.MethodPost, "/training", anyRole, h.training.Create},
		{http.MethodPost, "/training/:id/sync", anyRole, h.training.Sync},
		{http.MethodPost, "/training/:id/delete", superAdminOnly, h.training.Delete},

		{http.MethodGet, "/content", anyRole, h.content.List},
		{http.MethodPost, "/content", anyRole, h.content.Create},
		{http.MethodPost, "/content/:id/sync", anyRole, h.content.Sync},

		{http.MethodGet, "/users", superAdminOnly, h.users.List},
		{http.MethodPost, "/users", superAdminOnly, h.users.Create},
		{http.MethodPost, "/users/:id/delete", superAdminOnly, h.users.Delete},
	}
}
