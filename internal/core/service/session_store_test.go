package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubKV struct {
	mu        sync.Mutex
	data      map[string]string
	getErr    error
	setErr    error
	removeErr error
	sets      int
	removes   int
}

func newStubKV() *stubKV {
	return &stubKV{data: make(map[string]string)}
}

func (kv *stubKV) Get(_ context.Context, key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.getErr != nil {
		return "", false, kv.getErr
	}
	v, ok := kv.data[key]
	return v, ok, nil
}

func (kv *stubKV) Set(_ context.Context, entries map[string]string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.setErr != nil {
		return kv.setErr
	}
	kv.sets++
	for k, v := range entries {
		kv.data[k] = v
	}
	return nil
}

func (kv *stubKV) Remove(_ context.Context, keys ...string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.removeErr != nil {
		return kv.removeErr
	}
	kv.removes++
	for _, k := range keys {
		delete(kv.data, k)
	}
	return nil
}

func (kv *stubKV) has(key string) bool {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	_, ok := kv.data[key]
	return ok
}

type stubIssuer struct {
	token string
	err   error
	calls int
}

func (i *stubIssuer) IssueToken(_ context.Context, username, password string) (string, error) {
	i.calls++
	if i.err != nil {
		return "", i.err
	}
	return i.token, nil
}

func newStore(kv *stubKV, issuer *stubIssuer) *SessionStore {
	return NewSessionStore(kv, issuer, zerolog.Nop())
}

func assertConsistent(t *testing.T, s domain.Session) {
	t.Helper()
	if (s.Credential == nil) != (s.Identity == nil) {
		t.Fatalf("credential/identity out of step: credential=%v identity=%+v", s.Credential, s.Identity)
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestSessionStore_StartsHydrating(t *testing.T) {
	store := newStore(newStubKV(), &stubIssuer{token: "tok"})

	snap := store.Snapshot()
	if !snap.Hydrating {
		t.Fatalf("expected hydrating before Initialize")
	}
	assertConsistent(t, snap)
}

func TestSessionStore_Initialize_EmptyStorage(t *testing.T) {
	store := newStore(newStubKV(), &stubIssuer{token: "tok"})

	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	snap := store.Snapshot()
	if snap.Hydrating {
		t.Fatalf("expected hydration to be finished")
	}
	if snap.Identity != nil || snap.Credential != nil {
		t.Fatalf("expected empty session, got %+v", snap)
	}
}

func TestSessionStore_Login_ResolvesRoles(t *testing.T) {
	cases := []struct {
		username string
		role     domain.Role
		name     string
	}{
		{"superadmin", domain.RoleSuperAdmin, "Super Admin"},
		{"alice", domain.RoleProjectAdmin, "Project Admin"},
		{"admin", domain.RoleProjectAdmin, "Project Admin"},
	}

	for _, tc := range cases {
		t.Run(tc.username, func(t *testing.T) {
			store := newStore(newStubKV(), &stubIssuer{token: "tok"})
			_ = store.Initialize(context.Background())

			id, err := store.Login(context.Background(), tc.username, "anything")
			if err != nil {
				t.Fatalf("Login returned error: %v", err)
			}
			if id.Role != tc.role || id.DisplayName != tc.name || id.Username != tc.username {
				t.Fatalf("unexpected identity: %+v", id)
			}

			snap := store.Snapshot()
			assertConsistent(t, snap)
			if snap.Token() != "tok" {
				t.Fatalf("expected credential tok, got %q", snap.Token())
			}
		})
	}
}

func TestSessionStore_Login_PersistsBothKeysTogether(t *testing.T) {
	kv := newStubKV()
	store := newStore(kv, &stubIssuer{token: "tok"})
	_ = store.Initialize(context.Background())

	if _, err := store.Login(context.Background(), "alice", "x"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if kv.sets != 1 {
		t.Fatalf("expected a single storage write, got %d", kv.sets)
	}
	if kv.data[domain.KeyToken] != "tok" {
		t.Fatalf("token not persisted: %+v", kv.data)
	}
	if kv.data[domain.KeyUser] != `{"username":"alice","role":"PROJECT_ADMIN","name":"Project Admin"}` {
		t.Fatalf("unexpected user record: %s", kv.data[domain.KeyUser])
	}
}

func TestSessionStore_Login_FailureLeavesStateUntouched(t *testing.T) {
	kv := newStubKV()
	issuer := &stubIssuer{token: "first"}
	store := newStore(kv, issuer)
	_ = store.Initialize(context.Background())

	if _, err := store.Login(context.Background(), "superadmin", "password123"); err != nil {
		t.Fatalf("first login failed: %v", err)
	}

	issuer.err = errors.New("401 Unauthorized")
	_, err := store.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}

	snap := store.Snapshot()
	if snap.Identity == nil || snap.Identity.Username != "superadmin" || snap.Token() != "first" {
		t.Fatalf("previous session changed: %+v", snap)
	}
	if kv.data[domain.KeyToken] != "first" {
		t.Fatalf("persisted token changed: %q", kv.data[domain.KeyToken])
	}
}

func TestSessionStore_Login_EmptyTokenIsAuthenticationError(t *testing.T) {
	store := newStore(newStubKV(), &stubIssuer{token: ""})
	_ = store.Initialize(context.Background())

	if _, err := store.Login(context.Background(), "alice", "x"); !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
	if store.Snapshot().Identity != nil {
		t.Fatalf("expected no identity")
	}
}

func TestSessionStore_Login_StorageFailure(t *testing.T) {
	kv := newStubKV()
	kv.setErr = errors.New("disk full")
	store := newStore(kv, &stubIssuer{token: "tok"})
	_ = store.Initialize(context.Background())

	_, err := store.Login(context.Background(), "alice", "x")
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("storage failure must not look like an authentication failure")
	}
	snap := store.Snapshot()
	assertConsistent(t, snap)
	if snap.Identity != nil {
		t.Fatalf("expected no identity after failed persist")
	}
}

func TestSessionStore_Logout_Idempotent(t *testing.T) {
	kv := newStubKV()
	store := newStore(kv, &stubIssuer{token: "tok"})
	_ = store.Initialize(context.Background())
	_, _ = store.Login(context.Background(), "alice", "x")

	store.Logout(context.Background())
	once := store.Snapshot()
	store.Logout(context.Background())
	twice := store.Snapshot()

	if once.Identity != nil || once.Credential != nil || once.Hydrating {
		t.Fatalf("unexpected state after logout: %+v", once)
	}
	if twice.Identity != nil || twice.Credential != nil || twice.Hydrating != once.Hydrating {
		t.Fatalf("second logout changed state: %+v", twice)
	}
	if kv.has(domain.KeyToken) || kv.has(domain.KeyUser) {
		t.Fatalf("expected both keys removed: %+v", kv.data)
	}
}

func TestSessionStore_Logout_StorageFailureStillClearsMemory(t *testing.T) {
	kv := newStubKV()
	store := newStore(kv, &stubIssuer{token: "tok"})
	_ = store.Initialize(context.Background())
	_, _ = store.Login(context.Background(), "alice", "x")

	kv.removeErr = errors.New("read-only filesystem")
	store.Logout(context.Background())

	if store.Snapshot().Identity != nil {
		t.Fatalf("expected memory cleared even when storage fails")
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	kv := newStubKV()
	first := newStore(kv, &stubIssuer{token: "tok-123"})
	_ = first.Initialize(context.Background())

	loggedIn, err := first.Login(context.Background(), "alice", "x")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// A fresh store over the same storage stands in for a process restart.
	second := newStore(kv, &stubIssuer{})
	if err := second.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	snap := second.Snapshot()
	if snap.Identity == nil || *snap.Identity != *loggedIn {
		t.Fatalf("expected identity %+v, got %+v", loggedIn, snap.Identity)
	}
	if snap.Token() != "tok-123" {
		t.Fatalf("expected credential tok-123, got %q", snap.Token())
	}
}

func TestSessionStore_InitializeAfterLoginKeepsLogin(t *testing.T) {
	kv := newStubKV()
	kv.data[domain.KeyToken] = "stale"
	kv.data[domain.KeyUser] = `{"username":"bob","role":"PROJECT_ADMIN","name":"Project Admin"}`

	store := newStore(kv, &stubIssuer{token: "fresh"})
	if _, err := store.Login(context.Background(), "superadmin", "password123"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	snap := store.Snapshot()
	if snap.Identity == nil || snap.Identity.Username != "superadmin" || snap.Token() != "fresh" {
		t.Fatalf("stale storage overwrote login: %+v", snap)
	}
}

func TestSessionStore_Initialize_RunsOnce(t *testing.T) {
	kv := newStubKV()
	store := newStore(kv, &stubIssuer{token: "tok"})
	_ = store.Initialize(context.Background())

	kv.data[domain.KeyToken] = "late"
	kv.data[domain.KeyUser] = `{"username":"bob","role":"PROJECT_ADMIN","name":"Project Admin"}`
	_ = store.Initialize(context.Background())

	if store.Snapshot().Identity != nil {
		t.Fatalf("second Initialize must not hydrate again")
	}
}

func TestSessionStore_Initialize_RepairsCorruptedState(t *testing.T) {
	cases := map[string]map[string]string{
		"token without user": {domain.KeyToken: "tok"},
		"user without token": {domain.KeyUser: `{"username":"bob","role":"PROJECT_ADMIN","name":"Project Admin"}`},
		"undecodable user":   {domain.KeyToken: "tok", domain.KeyUser: "{not json"},
		"unknown role":       {domain.KeyToken: "tok", domain.KeyUser: `{"username":"bob","role":"ROOT","name":"x"}`},
	}

	for name, seed := range cases {
		t.Run(name, func(t *testing.T) {
			kv := newStubKV()
			for k, v := range seed {
				kv.data[k] = v
			}
			store := newStore(kv, &stubIssuer{})

			if err := store.Initialize(context.Background()); err != nil {
				t.Fatalf("corruption must be repaired, not returned: %v", err)
			}

			snap := store.Snapshot()
			assertConsistent(t, snap)
			if snap.Hydrating || snap.Identity != nil {
				t.Fatalf("expected empty resolved session, got %+v", snap)
			}
			if kv.has(domain.KeyToken) || kv.has(domain.KeyUser) {
				t.Fatalf("expected both keys cleared, got %+v", kv.data)
			}
		})
	}
}

func TestSessionStore_Initialize_ReadFailure(t *testing.T) {
	kv := newStubKV()
	kv.getErr = errors.New("connection refused")
	store := newStore(kv, &stubIssuer{})

	if err := store.Initialize(context.Background()); err == nil {
		t.Fatalf("expected read failure to be reported")
	}
	snap := store.Snapshot()
	if snap.Hydrating || snap.Identity != nil {
		t.Fatalf("expected unauthenticated resolved session, got %+v", snap)
	}
}

func TestSessionStore_Login_IgnoresTokenRoleClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "alice",
		"role": "SUPER_ADMIN",
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	store := newStore(newStubKV(), &stubIssuer{token: token})
	_ = store.Initialize(context.Background())

	id, err := store.Login(context.Background(), "alice", "x")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if id.Role != domain.RoleProjectAdmin {
		t.Fatalf("role must come from the username, got %s", id.Role)
	}
}

func TestSessionStore_SnapshotIsACopy(t *testing.T) {
	store := newStore(newStubKV(), &stubIssuer{token: "tok"})
	_ = store.Initialize(context.Background())
	_, _ = store.Login(context.Background(), "alice", "x")

	snap := store.Snapshot()
	snap.Identity.Role = domain.RoleSuperAdmin
	*snap.Credential = "tampered"

	again := store.Snapshot()
	if again.Identity.Role != domain.RoleProjectAdmin || again.Token() != "tok" {
		t.Fatalf("snapshot mutation leaked into the store: %+v", again)
	}
}
