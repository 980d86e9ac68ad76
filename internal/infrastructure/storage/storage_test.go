package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/samarth/admin-console/internal/infrastructure/config"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "token"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, map[string]string{"token": "abc", "user": `{"username":"alice"}`}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if v, ok, err := s.Get(ctx, "token"); err != nil || !ok || v != "abc" {
		t.Fatalf("unexpected token: %q %v %v", v, ok, err)
	}
	if v, ok, _ := s.Get(ctx, "user"); !ok || v != `{"username":"alice"}` {
		t.Fatalf("unexpected user: %q", v)
	}

	if err := s.Remove(ctx, "token", "user"); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "token"); ok {
		t.Fatalf("token still present after Remove")
	}
	if _, ok, _ := s.Get(ctx, "user"); ok {
		t.Fatalf("user still present after Remove")
	}

	// Removing missing keys is not an error.
	if err := s.Remove(ctx, "token"); err != nil {
		t.Fatalf("Remove of missing key returned error: %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	exerciseStore(t, fs)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	first, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if err := first.Set(ctx, map[string]string{"token": "persisted"}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	second, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if v, ok, err := second.Get(ctx, "token"); err != nil || !ok || v != "persisted" {
		t.Fatalf("value did not survive reopen: %q %v %v", v, ok, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestFileStore_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if _, _, err := fs.Get(context.Background(), "token"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFileStore_EmptyPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestOpen_MemoryAndFile(t *testing.T) {
	ctx := context.Background()

	s, closeFn, err := Open(ctx, config.StorageConfig{Driver: "memory"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open memory returned error: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", s)
	}
	_ = closeFn(ctx)

	s, _, err = Open(ctx, config.StorageConfig{Driver: "file", Path: filepath.Join(t.TempDir(), "s.json")}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open file returned error: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", s)
	}

	if _, _, err := Open(ctx, config.StorageConfig{Driver: "etcd"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
