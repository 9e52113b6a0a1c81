// Package ratelimit provides the per-endpoint, per-client limiter gating
// token issuance and refresh. A client gets one call per window; the next
// one is rejected until the window elapses.
package ratelimit

import (
	"context"
	"time"
)

// Limiter reserves a slot for a client or reports that it is still inside
// its window.
type Limiter interface {
	// Allow records clientID as in-window and returns true, or returns
	// false if the client already holds a reservation.
	Allow(ctx context.Context, clientID string) (bool, error)

	// Window is the configured per-client interval.
	Window() time.Duration
}
