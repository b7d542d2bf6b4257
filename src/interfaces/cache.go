package interfaces

import (
	"context"

	"github.com/jhchoi91066/system-trading-sub000/src/models"
)

// -----------------------------------------------------------------------------
// ISnapshotCache defines the contract for the warm-start snapshot cache.
// -----------------------------------------------------------------------------

type ISnapshotCache interface {

	// -----------------------------------------------------------------------------

	// SaveSnapshot stores the latest merged snapshot with a TTL.
	SaveSnapshot(ctx context.Context, snapshot models.MRealtimeSnapshot) error

	// -----------------------------------------------------------------------------

	// LoadSnapshot returns the cached snapshot, or nil on a miss.
	// A miss is not an error.
	LoadSnapshot(ctx context.Context) (*models.MRealtimeSnapshot, error)

	// -----------------------------------------------------------------------------

	// Close releases the cache connection.
	Close() error
}
