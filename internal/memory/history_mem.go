package memory

import (
	"sync"
	"time"

	"github.com/dverbeek/mockmate/internal/provider"
)

// sessionHistory holds the turns for a single session. Its mutex serializes
// all reads and writes for that session, including the full
// snapshot-call-append sequence of an Exchange.
type sessionHistory struct {
	mu         sync.Mutex
	turns      []provider.Message
	lastActive time.Time
}

// InMemoryHistoryStore is a thread-safe, in-memory implementation of
// HistoryStore. The outer RWMutex guards only the session map; each session
// carries its own mutex so sessions never block each other.
type InMemoryHistoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionHistory

	// maxTurns is the history cap in turns (2 × exchanges).
	maxTurns int

	// now is injectable for deterministic testing.
	now func() time.Time
}

// NewInMemoryHistoryStore creates an empty store keeping at most
// maxExchanges user/assistant pairs per session. A non-positive value
// falls back to DefaultMaxExchanges.
func NewInMemoryHistoryStore(maxExchanges int) *InMemoryHistoryStore {
	if maxExchanges <= 0 {
		maxExchanges = DefaultMaxExchanges
	}
	return &InMemoryHistoryStore{
		sessions: make(map[string]*sessionHistory),
		maxTurns: maxExchanges * 2,
		now:      time.Now,
	}
}

// Compile-time interface check.
var _ HistoryStore = (*InMemoryHistoryStore)(nil)

func (s *InMemoryHistoryStore) getOrCreate(sessionID string) *sessionHistory {
	s.mu.RLock()
	sh, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return sh
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sh, ok := s.sessions[sessionID]; ok {
		return sh
	}
	sh = &sessionHistory{lastActive: s.now()}
	s.sessions[sessionID] = sh
	return sh
}

// Append adds a message to the session's history. Eviction runs only after
// a completed pair, so the history length stays even and never exceeds the
// cap once the assistant turn lands.
func (s *InMemoryHistoryStore) Append(sessionID string, msg provider.Message) {
	sh := s.getOrCreate(sessionID)

	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.appendLocked(msg, s.maxTurns, s.now())
}

// appendLocked appends one turn and trims oldest pairs past the cap.
// Caller must hold sh.mu.
func (sh *sessionHistory) appendLocked(msg provider.Message, maxTurns int, now time.Time) {
	sh.turns = append(sh.turns, msg)
	if len(sh.turns)%2 == 0 {
		for len(sh.turns) > maxTurns {
			sh.turns = sh.turns[2:]
		}
	}
	sh.lastActive = now
}

// Snapshot returns a copy of the session's history.
func (s *InMemoryHistoryStore) Snapshot(sessionID string) []provider.Message {
	s.mu.RLock()
	sh, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	result := make([]provider.Message, len(sh.turns))
	copy(result, sh.turns)
	return result
}

// Exchange runs fn with a snapshot of the session's history while holding
// the session's lock, then appends the returned user/assistant pair. A
// second Exchange for the same session blocks until the first completes;
// exchanges for different sessions proceed independently. On error the
// history is left unchanged.
func (s *InMemoryHistoryStore) Exchange(sessionID string, fn ExchangeFunc) error {
	sh := s.getOrCreate(sessionID)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	snapshot := make([]provider.Message, len(sh.turns))
	copy(snapshot, sh.turns)

	user, assistant, err := fn(snapshot)
	if err != nil {
		return err
	}

	now := s.now()
	sh.appendLocked(user, s.maxTurns, now)
	sh.appendLocked(assistant, s.maxTurns, now)
	return nil
}

// Reset removes the session's entry entirely.
func (s *InMemoryHistoryStore) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// PairCount returns the number of completed pairs for the session.
func (s *InMemoryHistoryStore) PairCount(sessionID string) int {
	s.mu.RLock()
	sh, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return 0
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	return len(sh.turns) / 2
}

// Prune removes sessions whose idle time exceeds maxIdle and returns the
// number of sessions pruned. Intended to be called periodically by the
// memory module's scheduler.
func (s *InMemoryHistoryStore) Prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	pruned := 0
	for id, sh := range s.sessions {
		// TryLock: a session with an exchange in flight is active by
		// definition and must not be pruned mid-call.
		if !sh.mu.TryLock() {
			continue
		}
		idle := now.Sub(sh.lastActive)
		sh.mu.Unlock()

		if idle > maxIdle {
			delete(s.sessions, id)
			pruned++
		}
	}
	return pruned
}

// Len returns the number of tracked sessions.
func (s *InMemoryHistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
