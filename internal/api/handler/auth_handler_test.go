package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/core/domain"
)

type stubSessionStore struct {
	snapshot domain.Session
	loginFn  func(ctx context.Context, username, password string) (*domain.Identity, error)
	logouts  int
}

func (s *stubSessionStore) Snapshot() domain.Session { return s.snapshot }

func (s *stubSessionStore) Initialize(ctx context.Context) error { return nil }

func (s *stubSessionStore) Logout(ctx context.Context) {
	s.logouts++
	s.snapshot = domain.Session{}
}

func (s *stubSessionStore) Login(ctx context.Context, username, password string) (*domain.Identity, error) {
	id, err := s.loginFn(ctx, username, password)
	if err == nil {
		token := "tok"
		s.snapshot = domain.Session{Credential: &token, Identity: id}
	}
	return id, err
}

// pageRenderer writes the view name followed by the page error, if any.
type pageRenderer struct{}

func (pageRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	if p, ok := data.(Page); ok && p.Error != "" {
		_, err := fmt.Fprintf(w, "%s:%s", name, p.Error)
		return err
	}
	_, err := io.WriteString(w, name)
	return err
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Renderer = pageRenderer{}
	e.Validator = NewValidator()
	return e
}

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubSessionStore{
		loginFn: func(ctx context.Context, username, password string) (*domain.Identity, error) {
			if username != "superadmin" || password != "password123" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			id := domain.ResolveIdentity(username)
			return &id, nil
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/login", url.Values{"username": {"superadmin"}, "password": {"password123"}}), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %q", loc)
	}
}

func TestAuthHandler_Login_Rejected(t *testing.T) {
	e := newEcho()
	stub := &stubSessionStore{
		loginFn: func(ctx context.Context, username, password string) (*domain.Identity, error) {
			return nil, fmt.Errorf("login: %w", domain.ErrAuthentication)
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/login", url.Values{"username": {"bob"}, "password": {"x"}}), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Body.String() != "login:Invalid username or password" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestAuthHandler_Login_StorageFailure(t *testing.T) {
	e := newEcho()
	stub := &stubSessionStore{
		loginFn: func(ctx context.Context, username, password string) (*domain.Identity, error) {
			return nil, errors.New("login: persist session: disk full")
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/login", url.Values{"username": {"bob"}, "password": {"x"}}), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk full") {
		t.Fatalf("storage details must not leak to the view")
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newEcho()
	stub := &stubSessionStore{
		loginFn: func(ctx context.Context, username, password string) (*domain.Identity, error) {
			t.Fatalf("store must not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/login", url.Values{"username": {"bob"}}), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec.Body.String() != "login:password is required" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestAuthHandler_LoginPage_RedirectsWhenAuthenticated(t *testing.T) {
	e := newEcho()
	token := "tok"
	id := domain.ResolveIdentity("alice")
	stub := &stubSessionStore{snapshot: domain.Session{Credential: &token, Identity: &id}}
	handler := NewAuthHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/login", nil), rec)

	if err := handler.LoginPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
}

func TestAuthHandler_LoginPage_WhileHydrating(t *testing.T) {
	e := newEcho()
	stub := &stubSessionStore{snapshot: domain.Session{Hydrating: true}}
	handler := NewAuthHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/login", nil), rec)

	if err := handler.LoginPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "login" {
		t.Fatalf("expected login view, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestAuthHandler_GetSession_HidesCredential(t *testing.T) {
	e := newEcho()
	token := "secret-token"
	id := domain.ResolveIdentity("alice")
	stub := &stubSessionStore{snapshot: domain.Session{Credential: &token, Identity: &id}}
	handler := NewAuthHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/session", nil), rec)

	if err := handler.GetSession(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.Contains(rec.Body.String(), token) {
		t.Fatalf("credential leaked: %s", rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["authenticated"] != true {
		t.Fatalf("expected authenticated session, got %+v", resp)
	}
	identity, ok := resp["identity"].(map[string]any)
	if !ok || identity["role"] != "PROJECT_ADMIN" || identity["name"] != "Project Admin" {
		t.Fatalf("unexpected identity payload: %+v", resp["identity"])
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	stub := &stubSessionStore{}
	handler := NewAuthHandler(stub, zerolog.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/logout", nil), rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.logouts != 1 {
		t.Fatalf("expected one logout, got %d", stub.logouts)
	}
	if rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login")
	}
}
