// Package gate decides whether a caller may mutate a record and, on delete,
// runs the best-effort cleanup of the record's stored assets.
package gate

import (
	"context"
	"errors"
	"log"

	"github.com/pawmart/pawmart/internal/assets"
	"github.com/pawmart/pawmart/internal/metrics"
	"github.com/pawmart/pawmart/internal/store"
)

// ErrDenied is returned when the caller is authenticated but does not own the
// record. Unauthenticated callers never reach the gate; the auth middleware
// rejects them before any record fetch happens.
var ErrDenied = errors.New("caller does not own this record")

// Record is a fetched record carrying its owner's external identity key and
// its stored asset locators.
type Record interface {
	// OwnerKey returns the owning identity's (provider, subject) pair.
	// ok is false when the record has no owner.
	OwnerKey() (provider, subject string, ok bool)
	// AssetURLs returns the locators to remove after the record is deleted.
	AssetURLs() []string
}

// Gate authorizes mutations and orchestrates post-delete asset cleanup.
type Gate struct {
	assets assets.Store
}

func New(a assets.Store) *Gate {
	return &Gate{assets: a}
}

// Authorize reports whether caller may mutate rec.
//
// The comparison is by external (provider, subject) equality rather than
// internal row ID. The upsert on login keeps one row per external subject, but
// matching on the external key stays correct even if that invariant were ever
// violated. Ownerless records deny all mutation: they cannot be claimed
// retroactively through this path.
func (g *Gate) Authorize(rec Record, caller *store.User) error {
	if caller == nil {
		return ErrDenied
	}
	provider, subject, ok := rec.OwnerKey()
	if !ok {
		return ErrDenied
	}
	if provider != caller.Provider || subject != caller.Subject {
		return ErrDenied
	}
	return nil
}

// Cleanup removes rec's assets after the record row is already gone. The
// record deletion is the operation's success criterion; asset removal is
// advisory.
func (g *Gate) Cleanup(ctx context.Context, rec Record) {
	g.CleanupURLs(ctx, rec.AssetURLs())
}

// CleanupURLs removes stored assets that no record references anymore, either
// because the record was deleted or because an update replaced its media set.
// Each removal is independent: a failure is logged and counted, the remaining
// assets are still attempted, and no error reaches the caller.
func (g *Gate) CleanupURLs(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := g.assets.Delete(ctx, url); err != nil {
			metrics.AssetCleanupFailuresTotal.Inc()
			log.Printf("gate: remove asset %s: %v", url, err)
		}
	}
}
