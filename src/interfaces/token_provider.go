package interfaces

import "context"

// -----------------------------------------------------------------------------
// ITokenProvider defines the contract for asynchronous credential lookup.
// -----------------------------------------------------------------------------

type ITokenProvider interface {

	// -----------------------------------------------------------------------------

	// Token returns the current session credential. An error means no
	// credential is available; the caller must not attempt the transport.
	Token(ctx context.Context) (string, error)
}
