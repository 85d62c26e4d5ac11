package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores assets as files under dir and serves them from baseURL.
// The HTTP router mounts dir at baseURL when this backend is configured.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates the directory if needed and returns a Local store.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	path := filepath.Join(l.dir, key)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create asset file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write asset file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close asset file: %w", err)
	}
	return l.baseURL + "/" + key, nil
}

func (l *Local) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, l.baseURL+"/")
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotManaged, url)
	}
	if err := validKey(key); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(l.dir, key)); err != nil {
		return fmt.Errorf("remove asset file: %w", err)
	}
	return nil
}

// validKey rejects keys that could escape the asset directory.
func validKey(key string) error {
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid asset key %q", key)
	}
	return nil
}
