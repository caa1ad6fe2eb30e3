package router

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DoyleJ11/wordgame-client/internal/action"
	"github.com/DoyleJ11/wordgame-client/internal/wire"
)

// lockedStore is a fakeStore safe to read from the test goroutine while the
// loop writes to it.
type lockedStore struct {
	mu sync.Mutex
	fakeStore
}

func (s *lockedStore) Dispatch(a action.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fakeStore.Dispatch(a)
}

func (s *lockedStore) AddChat(e action.ChatEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fakeStore.AddChat(e)
}

func (s *lockedStore) SetRedirectGame(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fakeStore.SetRedirectGame(id)
}

func (s *lockedStore) snapshot() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.calls...)
}

// helper: receive stats with a timeout so tests never hang
func recvStats(t *testing.T, l *Loop, within time.Duration) Stats {
	t.Helper()
	reply := make(chan Stats, 1)
	l.Inbox() <- GetStats{Reply: reply}
	select {
	case s := <-reply:
		return s
	case <-time.After(within):
		t.Fatalf("timed out waiting for stats")
		return Stats{} // unreachable
	}
}

func TestLoop_RoutesFramesInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &lockedStore{}
	l := NewLoop(ctx, New(store, nil), 8, nil)

	for _, id := range []string{"g1", "g2", "g3"} {
		l.Inbox() <- Frame{Data: wire.Encode(&wire.NewGameEvent{GameID: id})}
	}

	stats := recvStats(t, l, 100*time.Millisecond)
	if stats.Routed != 3 || stats.Dropped != 0 {
		t.Fatalf("want 3 routed / 0 dropped, got %+v", stats)
	}

	calls := store.snapshot()
	if len(calls) != 3 {
		t.Fatalf("want 3 store calls, got %d", len(calls))
	}
	for i, id := range []string{"g1", "g2", "g3"} {
		if calls[i].Payload != id {
			t.Fatalf("call %d: want redirect %q, got %+v", i, id, calls[i])
		}
	}
}

func TestLoop_BadFramesAreDroppedAndLoopContinues(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &lockedStore{}
	l := NewLoop(ctx, New(store, nil), 8, nil)

	l.Inbox() <- Frame{Data: []byte{99}}
	l.Inbox() <- Frame{Data: []byte{byte(wire.TypeErrorMessage), 0xff}}
	l.Inbox() <- Frame{Data: nil}
	l.Inbox() <- Frame{Data: wire.Encode(&wire.ErrorMessage{Message: "still alive"})}

	stats := recvStats(t, l, 100*time.Millisecond)
	if stats.Dropped != 2 {
		t.Fatalf("want 2 dropped frames, got %+v", stats)
	}
	if stats.Routed != 2 {
		t.Fatalf("want 2 routed frames (empty + chat), got %+v", stats)
	}

	calls := store.snapshot()
	if len(calls) != 1 || calls[0].Method != "AddChat" {
		t.Fatalf("expected a single AddChat call, got %+v", calls)
	}
}

func TestLoop_ShutdownStopsLoop(t *testing.T) {
	l := NewLoop(context.Background(), New(&lockedStore{}, nil), 1, nil)
	l.Inbox() <- Shutdown{}

	select {
	case <-l.Done():
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("loop did not exit after Shutdown")
	}
}

func TestLoop_StopWaitsForExit(t *testing.T) {
	l := NewLoop(context.Background(), New(&lockedStore{}, nil), 1, nil)
	if !l.Deliver(wire.Encode(&wire.NewGameEvent{GameID: "g1"})) {
		t.Fatalf("deliver on a running loop should succeed")
	}
	l.Stop()

	select {
	case <-l.Done():
	default:
		t.Fatalf("Stop returned before the loop exited")
	}
}

func TestLoop_DrainRoutesQueuedFramesFirst(t *testing.T) {
	store := &lockedStore{}
	l := NewLoop(context.Background(), New(store, nil), 128, nil)

	for i := 0; i < 100; i++ {
		l.Inbox() <- Frame{Data: wire.Encode(&wire.ErrorMessage{Message: "queued"})}
	}
	l.Drain()

	if got := len(store.snapshot()); got != 100 {
		t.Fatalf("want all 100 queued frames routed before exit, got %d", got)
	}
	// A second drain on a stopped loop returns at once.
	l.Drain()
}
