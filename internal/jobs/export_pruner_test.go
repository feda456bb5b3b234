package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (f *fakeStore) PruneExports(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, before)
	return 1, f.err
}

func (f *fakeStore) calls() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.cutoffs...)
}

func TestExportPruner_PruneOnceUsesRetention(t *testing.T) {
	store := &fakeStore{}
	p := NewExportPruner(store, time.Hour, 48*time.Hour)
	fixed := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	p.pruneOnce(context.Background())

	got := store.calls()
	if len(got) != 1 {
		t.Fatalf("PruneExports called %d times, want 1", len(got))
	}
	if want := fixed.Add(-48 * time.Hour); !got[0].Equal(want) {
		t.Errorf("cutoff = %v, want %v", got[0], want)
	}
}

func TestExportPruner_StartStopsOnCancel(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	p := NewExportPruner(store, 5*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for len(store.calls()) < 2 {
		select {
		case <-deadline:
			t.Fatal("pruner did not tick")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
