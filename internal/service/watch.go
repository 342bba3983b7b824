package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"pos-engine/internal/domain"
)

// changeBus fans out commit notifications to read subscriptions. Signals are
// coalesced: a subscriber that has not drained yet gets one pending wakeup,
// which is enough because subscribers re-query full snapshots.
type changeBus struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

func newChangeBus() *changeBus {
	return &changeBus{subs: map[int]chan struct{}{}}
}

func (b *changeBus) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Notify wakes every subscriber. Must be called only after the write
// committed, so snapshots observe updates in commit order.
func (b *changeBus) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Lister is the read surface a watcher re-queries; OrderService implements it.
type Lister interface {
	ListOrders(ctx context.Context, f domain.ListFilter) ([]domain.OrderGroup, error)
}

// Watcher is one consumer's live subscription to the grouped order list.
// SetQuery replaces the running query: the previous one is cancelled and any
// result it still produces is discarded (last request wins), so a stale
// search can never overwrite a fresher one. On a failed re-query the watcher
// re-emits its last-known-good snapshot instead of dying.
type Watcher struct {
	svc Lister
	bus *changeBus
	log *zap.Logger
	out chan []domain.OrderGroup

	mu     sync.Mutex
	gen    int
	cancel context.CancelFunc
	closed bool
}

func NewWatcher(svc Lister, bus *changeBus, log *zap.Logger) *Watcher {
	return &Watcher{svc: svc, bus: bus, log: log, out: make(chan []domain.OrderGroup, 16)}
}

// Snapshots delivers grouped aggregate snapshots for the latest query.
func (w *Watcher) Snapshots() <-chan []domain.OrderGroup {
	return w.out
}

// SetQuery starts watching the given filter, superseding any previous one.
func (w *Watcher) SetQuery(ctx context.Context, f domain.ListFilter) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.gen++
	gen := w.gen
	if w.cancel != nil {
		w.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()

	changes, unsub := w.bus.Subscribe()
	go w.run(runCtx, gen, f, changes, unsub)
}

// Close stops the current query goroutine. The snapshot channel is left open;
// consumers stop on their own context.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *Watcher) run(ctx context.Context, gen int, f domain.ListFilter, changes <-chan struct{}, unsub func()) {
	defer unsub()

	var lastGood []domain.OrderGroup
	emit := func() {
		groups, err := w.svc.ListOrders(ctx, f)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error("order list re-query failed", zap.String("filter", f.Filter), zap.Error(err))
			if lastGood != nil {
				w.deliver(ctx, gen, lastGood)
			}
			return
		}
		lastGood = groups
		w.deliver(ctx, gen, groups)
	}

	emit()
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			emit()
		}
	}
}

// deliver hands a snapshot to the consumer. The generation check and the send
// happen under the same mutex SetQuery bumps the generation under, so a
// superseded query cannot slip its result in after the replacement query
// delivered. A cancelled context always discards.
func (w *Watcher) deliver(ctx context.Context, gen int, snap []domain.OrderGroup) {
	if ctx.Err() != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen || ctx.Err() != nil {
		// superseded by a newer query; drop the stale result
		return
	}
	select {
	case w.out <- snap:
	default:
		// consumer is behind; drop the oldest queued snapshot for the new one
		select {
		case <-w.out:
		default:
		}
		select {
		case w.out <- snap:
		default:
		}
	}
}
