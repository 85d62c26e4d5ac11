package assets_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pawmart/pawmart/internal/assets"
)

func newLocal(t *testing.T) *assets.Local {
	t.Helper()
	l, err := assets.NewLocal(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	return l
}

func TestLocalPutAndDelete(t *testing.T) {
	dir := t.TempDir()
	l, err := assets.NewLocal(dir, "/uploads/")
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	ctx := context.Background()

	url, err := l.Put(ctx, "a.jpg", "image/jpeg", strings.NewReader("payload"), 7)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "/uploads/a.jpg" {
		t.Errorf("url = %q, want /uploads/a.jpg", url)
	}

	b, err := os.ReadFile(filepath.Join(dir, "a.jpg"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(b) != "payload" {
		t.Errorf("stored content = %q, want payload", b)
	}

	if err := l.Delete(ctx, url); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.jpg")); !os.IsNotExist(err) {
		t.Error("file still exists after delete")
	}
}

func TestLocalDeleteForeignURL(t *testing.T) {
	l := newLocal(t)

	err := l.Delete(context.Background(), "https://elsewhere.example.com/x.jpg")
	if !errors.Is(err, assets.ErrNotManaged) {
		t.Fatalf("expected ErrNotManaged, got %v", err)
	}
}

func TestLocalRejectsTraversalKeys(t *testing.T) {
	l := newLocal(t)
	ctx := context.Background()

	for _, key := range []string{"", "../escape.jpg", "nested/a.jpg"} {
		if _, err := l.Put(ctx, key, "image/jpeg", strings.NewReader("x"), 1); err == nil {
			t.Errorf("Put(%q) accepted an unsafe key", key)
		}
	}
	if err := l.Delete(ctx, "/uploads/../escape.jpg"); err == nil {
		t.Error("Delete accepted a traversal URL")
	}
}

func TestLocalDeleteMissingFile(t *testing.T) {
	l := newLocal(t)

	if err := l.Delete(context.Background(), "/uploads/never-stored.jpg"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
