// Package ledger defines the ports to the external ledger store and the
// retry policy shared by every backend.
package ledger

import (
	"context"
	"errors"

	"kassabot/internal/core"
)

// ErrUnavailable is returned once bounded retries against the backend are
// exhausted. The dispatcher turns it into a "try again later" reply.
var ErrUnavailable = errors.New("ledger unavailable")

// Ports for outbound ledger adapters.
type (
	Appender interface {
		// Append durably stores one entry and returns a backend row
		// reference for logging.
		Append(ctx context.Context, e core.Entry) (rowRef string, err error)
	}

	Querier interface {
		// Query returns the entries whose timestamp falls in the period,
		// in append order.
		Query(ctx context.Context, p core.Period) ([]core.Entry, error)
	}

	// Backend is the full ledger surface the dispatcher consumes.
	Backend interface {
		Appender
		Querier
	}
)
