package memory_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dverbeek/mockmate/internal/memory"
	"github.com/dverbeek/mockmate/internal/provider"
)

// Compile-time interface guard.
var _ memory.HistoryStore = (*memory.InMemoryHistoryStore)(nil)

func userMsg(content string) provider.Message {
	return provider.Message{Role: provider.MessageRoleUser, Content: content}
}

func assistantMsg(content string) provider.Message {
	return provider.Message{Role: provider.MessageRoleAssistant, Content: content}
}

// appendExchange appends one completed user/assistant pair.
func appendExchange(store memory.HistoryStore, sessionID, q, a string) {
	store.Append(sessionID, userMsg(q))
	store.Append(sessionID, assistantMsg(a))
}

func TestInMemoryHistoryStore_AppendAndSnapshot(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemoryHistoryStore(10)
	appendExchange(store, "s1", "hello", "hi there")

	snap := store.Snapshot("s1")
	if len(snap) != 2 {
		t.Fatalf("Snapshot: got %d turns, want 2", len(snap))
	}
	if snap[0].Role != provider.MessageRoleUser || snap[0].Content != "hello" {
		t.Errorf("snap[0] = %+v", snap[0])
	}
	if snap[1].Role != provider.MessageRoleAssistant || snap[1].Content != "hi there" {
		t.Errorf("snap[1] = %+v", snap[1])
	}

	// The snapshot is a copy; mutating it must not affect the store.
	snap[0].Content = "mutated"
	if got := store.Snapshot("s1")[0].Content; got != "hello" {
		t.Errorf("store content = %q after snapshot mutation, want %q", got, "hello")
	}
}

func TestInMemoryHistoryStore_PairCountCappedAtMax(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemoryHistoryStore(10)

	for n := 1; n <= 15; n++ {
		appendExchange(store, "s1", fmt.Sprintf("q%d", n), fmt.Sprintf("a%d", n))

		want := n
		if want > 10 {
			want = 10
		}
		if got := store.PairCount("s1"); got != want {
			t.Fatalf("after %d exchanges: PairCount = %d, want %d", n, got, want)
		}
	}

	// Oldest pairs were evicted: first surviving exchange is q6/a6.
	snap := store.Snapshot("s1")
	if len(snap) != 20 {
		t.Fatalf("len(snapshot) = %d, want 20", len(snap))
	}
	if snap[0].Content != "q6" {
		t.Errorf("oldest surviving turn = %q, want %q", snap[0].Content, "q6")
	}
	if snap[19].Content != "a15" {
		t.Errorf("newest turn = %q, want %q", snap[19].Content, "a15")
	}
}

func TestInMemoryHistoryStore_SessionIsolation(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemoryHistoryStore(10)
	appendExchange(store, "s1", "q", "a")

	if got := store.PairCount("s2"); got != 0 {
		t.Errorf("PairCount(s2) = %d, want 0", got)
	}
	if snap := store.Snapshot("s2"); snap != nil {
		t.Errorf("Snapshot(s2) = %v, want nil", snap)
	}

	appendExchange(store, "s2", "other q", "other a")
	if got := store.PairCount("s1"); got != 1 {
		t.Errorf("PairCount(s1) = %d after writing s2, want 1", got)
	}
}

func TestInMemoryHistoryStore_ResetIdempotent(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemoryHistoryStore(10)
	appendExchange(store, "s1", "q", "a")

	store.Reset("s1")
	if got := store.PairCount("s1"); got != 0 {
		t.Errorf("PairCount after reset = %d, want 0", got)
	}

	// Resetting again, and resetting a never-seen session, are no-ops.
	store.Reset("s1")
	store.Reset("never-seen")
	if got := store.Len(); got != 0 {
		t.Errorf("Len = %d, want 0", got)
	}
}

func TestInMemoryHistoryStore_ExchangeAppendsPair(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemoryHistoryStore(10)
	appendExchange(store, "s1", "q1", "a1")

	err := store.Exchange("s1", func(history []provider.Message) (provider.Message, provider.Message, error) {
		if len(history) != 2 {
			t.Errorf("snapshot inside exchange has %d turns, want 2", len(history))
		}
		return userMsg("q2"), assistantMsg("a2"), nil
	})
	if err != nil {
		t.Fatalf("Exchange: unexpected error: %v", err)
	}

	snap := store.Snapshot("s1")
	if len(snap) != 4 {
		t.Fatalf("len(snapshot) = %d, want 4", len(snap))
	}
	if snap[2].Content != "q2" || snap[3].Content != "a2" {
		t.Errorf("appended pair = %q/%q, want q2/a2", snap[2].Content, snap[3].Content)
	}
}

func TestInMemoryHistoryStore_ExchangeErrorLeavesHistoryUntouched(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemoryHistoryStore(10)
	appendExchange(store, "s1", "q1", "a1")

	wantErr := errors.New("provider exploded")
	err := store.Exchange("s1", func([]provider.Message) (provider.Message, provider.Message, error) {
		return provider.Message{}, provider.Message{}, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Exchange error = %v, want %v", err, wantErr)
	}

	if got := store.PairCount("s1"); got != 1 {
		t.Errorf("PairCount after failed exchange = %d, want 1", got)
	}
}

func TestInMemoryHistoryStore_ConcurrentExchangesNeverInterleave(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemoryHistoryStore(10)

	var wg sync.WaitGroup
	for _, label := range []string{"A", "B"} {
		label := label
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Exchange("s1", func([]provider.Message) (provider.Message, provider.Message, error) {
				// Widen the window in which interleaving could occur.
				time.Sleep(5 * time.Millisecond)
				return userMsg(label), assistantMsg(label), nil
			})
		}()
	}
	wg.Wait()

	snap := store.Snapshot("s1")
	if len(snap) != 4 {
		t.Fatalf("len(snapshot) = %d, want 4", len(snap))
	}
	// Pairs must be adjacent: [user:X, assistant:X, user:Y, assistant:Y].
	if snap[0].Content != snap[1].Content {
		t.Errorf("first pair interleaved: %q then %q", snap[0].Content, snap[1].Content)
	}
	if snap[2].Content != snap[3].Content {
		t.Errorf("second pair interleaved: %q then %q", snap[2].Content, snap[3].Content)
	}
	if snap[0].Content == snap[2].Content {
		t.Errorf("both pairs carry %q, expected one A pair and one B pair", snap[0].Content)
	}
}

func TestInMemoryHistoryStore_SnapshotNeverOddUnderConcurrentExchanges(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemoryHistoryStore(10)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = store.Exchange("s1", func([]provider.Message) (provider.Message, provider.Message, error) {
				return userMsg("q"), assistantMsg("a"), nil
			})
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		if n := len(store.Snapshot("s1")); n%2 != 0 {
			t.Fatalf("observed odd-length snapshot: %d turns", n)
		}
	}
}

func TestInMemoryHistoryStore_ConcurrentSessionsDoNotBlock(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemoryHistoryStore(10)

	// Hold s1's lock via a slow exchange; s2 must still make progress.
	release := make(chan struct{})
	s1Entered := make(chan struct{})
	go func() {
		_ = store.Exchange("s1", func([]provider.Message) (provider.Message, provider.Message, error) {
			close(s1Entered)
			<-release
			return userMsg("q"), assistantMsg("a"), nil
		})
	}()
	<-s1Entered

	doneS2 := make(chan struct{})
	go func() {
		appendExchange(store, "s2", "q", "a")
		close(doneS2)
	}()

	select {
	case <-doneS2:
	case <-time.After(2 * time.Second):
		t.Fatal("exchange on s2 blocked behind in-flight exchange on s1")
	}
	close(release)
}

func TestInMemoryHistoryStore_Prune(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemoryHistoryStore(10)
	appendExchange(store, "old", "q", "a")
	appendExchange(store, "fresh", "q", "a")

	// Nothing is idle yet.
	if pruned := store.Prune(time.Hour); pruned != 0 {
		t.Errorf("Prune = %d, want 0", pruned)
	}

	// With a zero idle allowance everything already written is stale.
	time.Sleep(5 * time.Millisecond)
	if pruned := store.Prune(time.Millisecond); pruned != 2 {
		t.Errorf("Prune = %d, want 2", pruned)
	}
	if got := store.Len(); got != 0 {
		t.Errorf("Len after prune = %d, want 0", got)
	}
}
