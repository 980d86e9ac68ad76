package ports

import (
	"context"

	"github.com/samarth/admin-console/internal/core/domain"
)

// SyncJob is a queued request to push one resource to the integration API.
type SyncJob struct {
	ID   string
	Kind domain.SyncKind
	// ResourceID is the backend identifier of the content item or training.
	ResourceID int
}

// SyncService executes queued sync jobs.
type SyncService interface {
	Process(ctx context.Context, job SyncJob) error
}

// SyncQueue accepts sync jobs for asynchronous processing and returns the
// job ID.
type SyncQueue interface {
	Enqueue(job SyncJob) (string, error)
}
