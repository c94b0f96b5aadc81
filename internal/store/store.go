// Package store persists akinator sessions between requests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/juuwaah/kotoba-akinator/internal/akinator"
)

var ErrNotFound = errors.New("store: session not found")

// Store is keyed by session id. Implementations must be safe for concurrent
// use and must not share history storage with callers.
type Store interface {
	Load(ctx context.Context, id string) (akinator.Session, error)
	Save(ctx context.Context, s akinator.Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]akinator.Session, error)
	// Sweep removes sessions last touched before cutoff and reports how
	// many were dropped.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
	Close() error
}
