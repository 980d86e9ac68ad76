package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samarth/admin-console/internal/core/domain"
)

func (c *Client) DashboardStats(ctx context.Context, token string) (*domain.DashboardStats, error) {
	var out domain.DashboardStats
	if err := c.do(ctx, request{op: "dashboard_stats", method: http.MethodGet, path: "/api/v1/dashboard/stats", token: token, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (c *Client) ListInventory(ctx context.Context, token string) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	if err := c.do(ctx, request{op: "list_inventory", method: http.MethodGet, path: "/api/v1/inventory/", token: token, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateInventory(ctx context.Context, token string, item domain.InventoryItem) (*domain.InventoryItem, error) {
	var out domain.InventoryItem
	if err := c.do(ctx, request{op: "create_inventory", method: http.MethodPost, path: "/api/v1/inventory/", token: token, json: item, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteInventory(ctx context.Context, token string, id int) error {
	return c.do(ctx, request{op: "delete_inventory", method: http.MethodDelete, path: fmt.Sprintf("/api/v1/inventory/%d", id), token: token})
}

// AuditExport records an export in the backend audit log.
func (c *Client) AuditExport(ctx context.Context, token string) error {
	return c.do(ctx, request{op: "audit_export", method: http.MethodPost, path: "/api/v1/inventory/audit-export", token: token})
}

func (c *Client) Utilization(ctx context.Context, token string) (*domain.Utilization, error) {
	var out domain.Utilization
	if err := c.do(ctx, request{op: "inventory_utilization", method: http.MethodGet, path: "/api/v1/inventory/utilization", token: token, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Training ──────────────────────────────────────────────────────────────────

func (c *Client) ListTrainings(ctx context.Context, token string) ([]domain.Training, error) {
	var out []domain.Training
	if err := c.do(ctx, request{op: "list_trainings", method: http.MethodGet, path: "/api/v1/training/", token: token, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTraining(ctx context.Context, token string, t domain.Training) (*domain.Training, error) {
	var out domain.Training
	if err := c.do(ctx, request{op: "create_training", method: http.MethodPost, path: "/api/v1/training/", token: token, json: t, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTraining(ctx context.Context, token string, id int) error {
	return c.do(ctx, request{op: "delete_training", method: http.MethodDelete, path: fmt.Sprintf("/api/v1/training/%d", id), token: token})
}

// ── Content ───────────────────────────────────────────────────────────────────

func (c *Client) ListContent(ctx context.Context, token string) ([]domain.ContentItem, error) {
	var out []domain.ContentItem
	if err := c.do(ctx, request{op: "list_content", method: http.MethodGet, path: "/api/v1/content/", token: token, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateContent(ctx context.Context, token string, item domain.ContentItem) (*domain.ContentItem, error) {
	var out domain.ContentItem
	if err := c.do(ctx, request{op: "create_content", method: http.MethodPost, path: "/api/v1/content/", token: token, json: item, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (c *Client) ListUsers(ctx context.Context, token string) ([]domain.Account, error) {
	var out []domain.Account
	if err := c.do(ctx, request{op: "list_users", method: http.MethodGet, path: "/api/v1/auth/users/", token: token, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, token string, u domain.NewAccount) (*domain.Account, error) {
	var out domain.Account
	if err := c.do(ctx, request{op: "create_user", method: http.MethodPost, path: "/api/v1/auth/users/", token: token, json: u, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int) error {
	return c.do(ctx, request{op: "delete_user", method: http.MethodDelete, path: fmt.Sprintf("/api/v1/auth/users/%d", id), token: token})
}

// ── Integration ───────────────────────────────────────────────────────────────

func (c *Client) SyncResource(ctx context.Context, token string, kind domain.SyncKind, id int) error {
	return c.do(ctx, request{op: "sync_" + string(kind), method: http.MethodPost, path: fmt.Sprintf("/api/v1/integration/sync/%s/%d", kind, id), token: token})
}
