package ports

import (
	"context"

	"github.com/samarth/admin-console/internal/core/domain"
)

// DashboardGateway reads aggregate statistics.
type DashboardGateway interface {
	DashboardStats(ctx context.Context, token string) (*domain.DashboardStats, error)
}

// InventoryGateway manages inventory kits.
type InventoryGateway interface {
	ListInventory(ctx context.Context, token string) ([]domain.InventoryItem, error)
	CreateInventory(ctx context.Context, token string, item domain.InventoryItem) (*domain.InventoryItem, error)
	DeleteInventory(ctx context.Context, token string, id int) error
	AuditExport(ctx context.Context, token string) error
	Utilization(ctx context.Context, token string) (*domain.Utilization, error)
}

// TrainingGateway manages training sessions.
type TrainingGateway interface {
	ListTrainings(ctx context.Context, token string) ([]domain.Training, error)
	CreateTraining(ctx context.Context, token string, t domain.Training) (*domain.Training, error)
	DeleteTraining(ctx context.Context, token string, id int) error
}

// ContentGateway manages digital content assets.
type ContentGateway interface {
	ListContent(ctx context.Context, token string) ([]domain.ContentItem, error)
	CreateContent(ctx context.Context, token string, c domain.ContentItem) (*domain.ContentItem, error)
}

// UserGateway manages backend user accounts.
type UserGateway interface {
	ListUsers(ctx context.Context, token string) ([]domain.Account, error)
	CreateUser(ctx context.Context, token string, u domain.NewAccount) (*domain.Account, error)
	DeleteUser(ctx context.Context, token string, id int) error
}

// SyncGateway pushes a single resource to the integration endpoint.
type SyncGateway interface {
	SyncResource(ctx context.Context, token string, kind domain.SyncKind, id int) error
}

// Backend is everything the console consumes from the SAMARTH API.
type Backend interface {
	TokenIssuer
	DashboardGateway
	InventoryGateway
	TrainingGateway
	ContentGateway
	UserGateway
	SyncGateway
}
