package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pos-engine/internal/domain"
)

// funcLister adapts a closure to the Lister interface.
type funcLister func(ctx context.Context, f domain.ListFilter) ([]domain.OrderGroup, error)

func (fn funcLister) ListOrders(ctx context.Context, f domain.ListFilter) ([]domain.OrderGroup, error) {
	return fn(ctx, f)
}

func groupsNamed(label string) []domain.OrderGroup {
	return []domain.OrderGroup{{Bucket: label}}
}

func recvSnapshot(t *testing.T, w *Watcher) []domain.OrderGroup {
	t.Helper()
	select {
	case snap := <-w.Snapshots():
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestWatcherReQueriesOnNotify(t *testing.T) {
	bus := newChangeBus()
	var mu sync.Mutex
	calls := 0
	lister := funcLister(func(ctx context.Context, f domain.ListFilter) ([]domain.OrderGroup, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return groupsNamed("first"), nil
		}
		return groupsNamed("second"), nil
	})

	w := NewWatcher(lister, bus, zap.NewNop())
	defer w.Close()
	w.SetQuery(context.Background(), domain.ListFilter{})

	snap := recvSnapshot(t, w)
	require.Len(t, snap, 1)
	assert.Equal(t, "first", snap[0].Bucket)

	bus.Notify()
	snap = recvSnapshot(t, w)
	assert.Equal(t, "second", snap[0].Bucket)
}

func TestWatcherLastRequestWins(t *testing.T) {
	bus := newChangeBus()

	slowDone := make(chan struct{})
	release := make(chan struct{})
	lister := funcLister(func(ctx context.Context, f domain.ListFilter) ([]domain.OrderGroup, error) {
		if f.Filter == "slow" {
			// simulate a stale query finishing after it was superseded;
			// deliberately ignores cancellation
			<-release
			defer close(slowDone)
			return groupsNamed("slow"), nil
		}
		return groupsNamed("fresh"), nil
	})

	w := NewWatcher(lister, bus, zap.NewNop())
	defer w.Close()

	w.SetQuery(context.Background(), domain.ListFilter{Filter: "slow"})
	w.SetQuery(context.Background(), domain.ListFilter{Filter: "fresh"})

	snap := recvSnapshot(t, w)
	assert.Equal(t, "fresh", snap[0].Bucket)

	// let the superseded query complete; its result must be dropped
	close(release)
	select {
	case <-slowDone:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded query never finished")
	}

	select {
	case snap := <-w.Snapshots():
		t.Fatalf("stale snapshot leaked through: %+v", snap)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherReemitsLastGoodOnFailure(t *testing.T) {
	bus := newChangeBus()
	var mu sync.Mutex
	fail := false
	lister := funcLister(func(ctx context.Context, f domain.ListFilter) ([]domain.OrderGroup, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("connection reset")
		}
		return groupsNamed("good"), nil
	})

	w := NewWatcher(lister, bus, zap.NewNop())
	defer w.Close()
	w.SetQuery(context.Background(), domain.ListFilter{})

	snap := recvSnapshot(t, w)
	assert.Equal(t, "good", snap[0].Bucket)

	mu.Lock()
	fail = true
	mu.Unlock()

	bus.Notify()
	snap = recvSnapshot(t, w)
	assert.Equal(t, "good", snap[0].Bucket, "failed re-query falls back to last known good snapshot")
}

func TestWatcherDeliverDiscardsCancelledResult(t *testing.T) {
	lister := funcLister(func(ctx context.Context, f domain.ListFilter) ([]domain.OrderGroup, error) {
		return nil, nil
	})
	w := NewWatcher(lister, newChangeBus(), zap.NewNop())
	defer w.Close()

	w.mu.Lock()
	w.gen = 1
	w.mu.Unlock()

	// a query whose context was cancelled must never deliver, even when its
	// generation still matches
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 200; i++ {
		w.deliver(ctx, 1, groupsNamed("stale"))
	}

	select {
	case snap := <-w.Snapshots():
		t.Fatalf("cancelled query delivered a snapshot: %+v", snap)
	default:
	}
}

func TestWatcherDeliverDiscardsSupersededGeneration(t *testing.T) {
	lister := funcLister(func(ctx context.Context, f domain.ListFilter) ([]domain.OrderGroup, error) {
		return nil, nil
	})
	w := NewWatcher(lister, newChangeBus(), zap.NewNop())
	defer w.Close()

	w.mu.Lock()
	w.gen = 2
	w.mu.Unlock()

	w.deliver(context.Background(), 1, groupsNamed("stale"))
	w.deliver(context.Background(), 2, groupsNamed("fresh"))

	snap := recvSnapshot(t, w)
	assert.Equal(t, "fresh", snap[0].Bucket)
	select {
	case snap := <-w.Snapshots():
		t.Fatalf("superseded generation delivered a snapshot: %+v", snap)
	default:
	}
}

func TestWatcherDeliverKeepsNewestWhenConsumerLags(t *testing.T) {
	lister := funcLister(func(ctx context.Context, f domain.ListFilter) ([]domain.OrderGroup, error) {
		return nil, nil
	})
	w := NewWatcher(lister, newChangeBus(), zap.NewNop())
	defer w.Close()

	w.mu.Lock()
	w.gen = 1
	w.mu.Unlock()

	// overflow the buffer; the newest snapshot must survive
	for i := 0; i < 40; i++ {
		w.deliver(context.Background(), 1, groupsNamed("older"))
	}
	w.deliver(context.Background(), 1, groupsNamed("newest"))

	var last []domain.OrderGroup
	for {
		select {
		case snap := <-w.Snapshots():
			last = snap
			continue
		default:
		}
		break
	}
	require.NotNil(t, last)
	assert.Equal(t, "newest", last[0].Bucket)
}

func TestChangeBusCoalescesPendingSignals(t *testing.T) {
	bus := newChangeBus()
	ch, unsub := bus.Subscribe()
	defer unsub()

	bus.Notify()
	bus.Notify()
	bus.Notify()

	<-ch
	select {
	case <-ch:
		t.Fatal("signals should coalesce into a single pending wakeup")
	default:
	}
}
