package ports

import (
	"context"

	"github.com/samarth/admin-console/internal/core/domain"
)

// KeyValueStore is the durable string store the session is persisted to.
// Set and Remove apply all of their entries in a single operation so the
// token and user keys never diverge.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, entries map[string]string) error
	Remove(ctx context.Context, keys ...string) error
}

// TokenIssuer exchanges operator credentials for a bearer token.
type TokenIssuer interface {
	IssueToken(ctx context.Context, username, password string) (string, error)
}

// SessionReader exposes the read-only session snapshot.
type SessionReader interface {
	Snapshot() domain.Session
}

// SessionStore is the single authority for authentication state.
type SessionStore interface {
	SessionReader
	Initialize(ctx context.Context) error
	Login(ctx context.Context, username, password string) (*domain.Identity, error)
	Logout(ctx context.Context)
}
