package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
)

type syncService struct {
	session ports.SessionReader
	gateway ports.SyncGateway
	log     zerolog.Logger
}

// NewSyncService returns a SyncService that pushes resources with the
// credential of whoever is logged in when the job runs.
func NewSyncService(session ports.SessionReader, gateway ports.SyncGateway, log zerolog.Logger) ports.SyncService {
	return &syncService{
		session: session,
		gateway: gateway,
		log:     log,
	}
}

// Process pushes a single resource to the integration endpoint.
func (s *syncService) Process(ctx context.Context, job ports.SyncJob) error {
	if job.Kind != domain.SyncContent && job.Kind != domain.SyncTraining {
		return fmt.Errorf("process sync: %w: unknown kind %q", domain.ErrInvalidInput, job.Kind)
	}

	snap := s.session.Snapshot()
	if !snap.Authenticated() {
		s.log.Warn().Str("job_id", job.ID).Str("kind", string(job.Kind)).Int("resource_id", job.ResourceID).
			Msg("sync skipped, operator logged out")
		return fmt.Errorf("process sync: %w", domain.ErrNotLoggedIn)
	}

	if err := s.gateway.SyncResource(ctx, snap.Token(), job.Kind, job.ResourceID); err != nil {
		return fmt.Errorf("process sync %s/%d: %w", job.Kind, job.ResourceID, err)
	}

	s.log.Info().
		Str("job_id", job.ID).
		Str("kind", string(job.Kind)).
		Int("resource_id", job.ResourceID).
		Str("username", snap.Identity.Username).
		Msg("resource synced")
	return nil
}
