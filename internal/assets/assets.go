// Package assets stores uploaded binary objects (pet photos, product images)
// and removes them again by public URL.
package assets

import (
	"context"
	"errors"
	"io"
)

// ErrNotManaged is returned by Delete when the URL was not issued by this store.
var ErrNotManaged = errors.New("asset URL is not managed by this store")

// Store is the blob-storage boundary. Put returns a public locator; Delete
// accepts that locator back. Callers treat Delete as advisory: a failed
// removal must never abort the operation that triggered it.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (url string, err error)
	Delete(ctx context.Context, url string) error
}
