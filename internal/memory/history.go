// Package memory provides bounded, per-session conversation history with an
// in-memory implementation.
package memory

import (
	"time"

	"github.com/dverbeek/mockmate/internal/provider"
)

// DefaultMaxExchanges is the number of user/assistant pairs kept per session
// when no explicit limit is configured.
const DefaultMaxExchanges = 10

// ExchangeFunc produces one user/assistant pair from a snapshot of the
// session's history. The snapshot reflects turns before this exchange.
// Returning an error leaves the history untouched.
type ExchangeFunc func(history []provider.Message) (user, assistant provider.Message, err error)

// HistoryStore manages session conversation history.
// Implementations must be safe for concurrent use and must serialize
// operations per session without blocking unrelated sessions.
type HistoryStore interface {
	// Append adds a message to the end of the session's history, creating
	// the session if needed. When a completed pair pushes the history past
	// the configured cap, the oldest pair is evicted.
	Append(sessionID string, msg provider.Message)

	// Snapshot returns a copy of the session's history, taken atomically
	// with respect to concurrent appends on the same session. Unknown
	// sessions yield a nil slice.
	Snapshot(sessionID string) []provider.Message

	// Exchange runs fn under the session's lock with a history snapshot,
	// then appends the returned pair. The snapshot, fn, and both appends
	// form one critical section per session.
	Exchange(sessionID string, fn ExchangeFunc) error

	// Reset removes the session entirely. Resetting an unknown session is
	// a no-op.
	Reset(sessionID string)

	// PairCount returns the number of completed user/assistant pairs for
	// the session; 0 for unknown sessions.
	PairCount(sessionID string) int

	// Prune removes sessions idle longer than maxIdle and returns the
	// number removed.
	Prune(maxIdle time.Duration) int

	// Len returns the number of tracked sessions.
	Len() int
}
