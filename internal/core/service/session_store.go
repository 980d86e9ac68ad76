package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/core/domain"
	"github.com/samarth/admin-console/internal/core/ports"
)

// SessionStore holds the console's single operator session and mirrors it
// into a durable key-value store.
type SessionStore struct {
	storage ports.KeyValueStore
	issuer  ports.TokenIssuer
	log     zerolog.Logger

	// writeMu serialises every path that writes storage, so a storage write
	// and the matching in-memory update are never interleaved with another.
	writeMu sync.Mutex

	mu         sync.RWMutex
	credential *string
	identity   *domain.Identity
	hydrating  bool
	resolved   bool

	initOnce sync.Once
	initErr  error
}

// NewSessionStore returns a store in the hydrating state. Initialize must be
// called once before guard decisions are trusted.
func NewSessionStore(storage ports.KeyValueStore, issuer ports.TokenIssuer, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		storage:   storage,
		issuer:    issuer,
		log:       log,
		hydrating: true,
	}
}

var _ ports.SessionStore = (*SessionStore)(nil)

// Snapshot returns a copy of the current session.
func (s *SessionStore) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.Session{Hydrating: s.hydrating}
	if s.credential != nil {
		token := *s.credential
		snap.Credential = &token
	}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	return snap
}

// Initialize restores the session from durable storage. Only the first call
// does any work; later calls return the first call's result.
func (s *SessionStore) Initialize(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.hydrate(ctx)
	})
	return s.initErr
}

func (s *SessionStore) hydrate(ctx context.Context) error {
	token, identity, err := s.load(ctx)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.isResolved() {
		// A login or logout finished while storage was being read; its state
		// is fresher than what we loaded.
		s.log.Debug().Msg("session resolved before hydration finished, keeping it")
		return nil
	}

	if errors.Is(err, domain.ErrCorruptedSession) {
		s.log.Warn().Err(err).Msg("discarding partial persisted session")
		if rmErr := s.storage.Remove(ctx, domain.KeyToken, domain.KeyUser); rmErr != nil {
			s.log.Error().Err(rmErr).Msg("failed to clear corrupted session")
		}
		err = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.resolved = true
	s.hydrating = false
	if err != nil {
		s.log.Error().Err(err).Msg("session hydration failed, starting unauthenticated")
		return fmt.Errorf("initialize session: %w", err)
	}
	if token != nil {
		s.credential = token
		s.identity = identity
		s.log.Info().Str("username", identity.Username).Str("role", string(identity.Role)).Msg("session restored")
	}
	return nil
}

func (s *SessionStore) isResolved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolved
}

// load reads both keys and checks they agree. A nil token with a nil error
// means there is no persisted session.
func (s *SessionStore) load(ctx context.Context) (*string, *domain.Identity, error) {
	token, hasToken, err := s.storage.Get(ctx, domain.KeyToken)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", domain.KeyToken, err)
	}
	raw, hasUser, err := s.storage.Get(ctx, domain.KeyUser)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", domain.KeyUser, err)
	}

	switch {
	case !hasToken && !hasUser:
		return nil, nil, nil
	case hasToken && !hasUser:
		return nil, nil, fmt.Errorf("%w: token without user", domain.ErrCorruptedSession)
	case !hasToken && hasUser:
		return nil, nil, fmt.Errorf("%w: user without token", domain.ErrCorruptedSession)
	}

	identity, err := decodeIdentity(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrCorruptedSession, err)
	}
	if token == "" {
		return nil, nil, fmt.Errorf("%w: empty token", domain.ErrCorruptedSession)
	}
	return &token, identity, nil
}

// Login exchanges credentials for a token, resolves the identity, and
// persists both before exposing them. On any failure the previous session is
// left as it was.
func (s *SessionStore) Login(ctx context.Context, username, password string) (*domain.Identity, error) {
	token, err := s.issuer.IssueToken(ctx, username, password)
	if err != nil {
		s.log.Info().Err(err).Str("username", username).Msg("login rejected")
		return nil, fmt.Errorf("login: %w", domain.ErrAuthentication)
	}
	if token == "" {
		s.log.Warn().Str("username", username).Msg("token endpoint returned no access token")
		return nil, fmt.Errorf("login: %w", domain.ErrAuthentication)
	}

	identity := domain.ResolveIdentity(username)
	s.checkRoleClaim(token, identity)

	raw, err := encodeIdentity(identity)
	if err != nil {
		return nil, fmt.Errorf("login: encode identity: %w", err)
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.storage.Set(ctx, map[string]string{
		domain.KeyToken: token,
		domain.KeyUser:  raw,
	}); err != nil {
		s.log.Error().Err(err).Msg("failed to persist session")
		return nil, fmt.Errorf("login: persist session: %w", err)
	}

	s.mu.Lock()
	s.credential = &token
	s.identity = &identity
	s.hydrating = false
	s.resolved = true
	s.mu.Unlock()

	s.log.Info().Str("username", identity.Username).Str("role", string(identity.Role)).Msg("operator logged in")

	out := identity
	return &out, nil
}

// Logout clears the session in memory and in storage. Storage failures are
// logged; the in-memory session is always cleared.
func (s *SessionStore) Logout(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	username := ""
	if s.identity != nil {
		username = s.identity.Username
	}
	s.credential = nil
	s.identity = nil
	s.hydrating = false
	s.resolved = true
	s.mu.Unlock()

	if err := s.storage.Remove(ctx, domain.KeyToken, domain.KeyUser); err != nil {
		s.log.Error().Err(err).Msg("failed to clear persisted session")
	}
	if username != "" {
		s.log.Info().Str("username", username).Msg("operator logged out")
	}
}

// checkRoleClaim logs when the token carries a role claim that disagrees
// with the username-derived role. The claim is never trusted.
func (s *SessionStore) checkRoleClaim(token string, identity domain.Identity) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return
	}
	claimed, _ := claims["role"].(string)
	if claimed == "" || claimed == string(identity.Role) {
		return
	}
	s.log.Warn().
		Str("username", identity.Username).
		Str("resolved_role", string(identity.Role)).
		Str("token_role", claimed).
		Msg("token role claim differs from resolved role")
}

func encodeIdentity(id domain.Identity) (string, error) {
	b, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeIdentity(raw string) (*domain.Identity, error) {
	var id domain.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if id.Username == "" || !id.Role.Valid() {
		return nil, errors.New("decode user: incomplete identity")
	}
	return &id, nil
}
