package interfaces

import "context"

// -----------------------------------------------------------------------------
// IStreamDialer / IStreamConn abstract the monitoring stream transport so the
// sync client can run against a fake in tests.
// -----------------------------------------------------------------------------

type IStreamDialer interface {

	// -----------------------------------------------------------------------------

	// Dial opens one connection to the monitoring endpoint. The context
	// bounds the handshake only, not the connection lifetime.
	Dial(ctx context.Context, url string) (IStreamConn, error)
}

type IStreamConn interface {

	// -----------------------------------------------------------------------------

	// ReadMessage blocks until the next inbound frame or a transport error.
	ReadMessage() ([]byte, error)

	// -----------------------------------------------------------------------------

	// WriteJSON marshals and writes one outbound frame.
	// Callers must serialize writes.
	WriteJSON(v interface{}) error

	// -----------------------------------------------------------------------------

	// Close tears the connection down. Safe to call more than once.
	Close() error
}
