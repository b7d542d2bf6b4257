package interfaces

import "github.com/jhchoi91066/system-trading-sub000/src/models"

// -----------------------------------------------------------------------------
// IDataExchanger defining the interface for pushing state to dashboard clients.
// -----------------------------------------------------------------------------

type IDataExchanger interface {
	// -----------------------------------------------------------------------------
	// Broadcast pushes a payload to every connected dashboard client.
	Broadcast(payload interface{})

	// -----------------------------------------------------------------------------
	// UpdateSnapshot replaces the retained merged snapshot (no broadcast).
	UpdateSnapshot(snapshot models.MRealtimeSnapshot)

	// -----------------------------------------------------------------------------
	// UpdateConnection replaces the retained upstream connection status.
	UpdateConnection(status models.MConnectionStatus)

	// -----------------------------------------------------------------------------
	// Start the server
	Start() error

	// -----------------------------------------------------------------------------
	// Stop the server gracefully
	Stop() error
}
