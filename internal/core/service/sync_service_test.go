package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
)

type stubSession struct {
	snap domain.Session
}

func (s stubSession) Snapshot() domain.Session { return s.snap }

type stubSyncGateway struct {
	err    error
	calls  []string
	tokens []string
}

func (g *stubSyncGateway) SyncResource(_ context.Context, token string, kind domain.SyncKind, id int) error {
	if g.err != nil {
		return g.err
	}
	g.calls = append(g.calls, string(kind))
	g.tokens = append(g.tokens, token)
	return nil
}

func TestSyncService_Process_HappyPath(t *testing.T) {
	gw := &stubSyncGateway{}
	svc := NewSyncService(stubSession{snap: sessionFor(domain.RoleProjectAdmin)}, gw, zerolog.Nop())

	err := svc.Process(context.Background(), ports.SyncJob{ID: "j1", Kind: domain.SyncContent, ResourceID: 7})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(gw.calls) != 1 || gw.calls[0] != "content" || gw.tokens[0] != "tok" {
		t.Fatalf("unexpected gateway calls: %v %v", gw.calls, gw.tokens)
	}
}

func TestSyncService_Process_LoggedOut(t *testing.T) {
	gw := &stubSyncGateway{}
	svc := NewSyncService(stubSession{}, gw, zerolog.Nop())

	err := svc.Process(context.Background(), ports.SyncJob{ID: "j1", Kind: domain.SyncTraining, ResourceID: 1})
	if !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("gateway must not be called")
	}
}

func TestSyncService_Process_UnknownKind(t *testing.T) {
	svc := NewSyncService(stubSession{snap: sessionFor(domain.RoleSuperAdmin)}, &stubSyncGateway{}, zerolog.Nop())

	err := svc.Process(context.Background(), ports.SyncJob{Kind: "inventory", ResourceID: 1})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSyncService_Process_GatewayError(t *testing.T) {
	gw := &stubSyncGateway{err: domain.ErrNotFound}
	svc := NewSyncService(stubSession{snap: sessionFor(domain.RoleSuperAdmin)}, gw, zerolog.Nop())

	err := svc.Process(context.Background(), ports.SyncJob{Kind: domain.SyncContent, ResourceID: 99})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected wrapped ErrNotFound, got %v", err)
	}
}
