package service

import "sync"

// orderLocks serializes writes per order id. Distinct orders never contend;
// entries are dropped once the last holder releases, so the map does not grow
// with order history.
type orderLocks struct {
	mu    sync.Mutex
	locks map[int64]*orderLock
}

type orderLock struct {
	mu   sync.Mutex
	refs int
}

func newOrderLocks() *orderLocks {
	return &orderLocks{locks: map[int64]*orderLock{}}
}

// Lock blocks until the per-order lock is held and returns the release func.
func (l *orderLocks) Lock(orderID int64) func() {
	l.mu.Lock()
	e, ok := l.locks[orderID]
	if !ok {
		e = &orderLock{}
		l.locks[orderID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, orderID)
		}
		l.mu.Unlock()
	}
}

// LockAll acquires several order locks in ascending id order so concurrent
// bulk operations cannot deadlock against each other.
func (l *orderLocks) LockAll(orderIDs []int64) func() {
	sorted := make([]int64, 0, len(orderIDs))
	seen := map[int64]bool{}
	for _, id := range orderIDs {
		if !seen[id] {
			seen[id] = true
			sorted = append(sorted, id)
		}
	}
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	releases := make([]func(), 0, len(sorted))
	for _, id := range sorted {
		releases = append(releases, l.Lock(id))
	}
	return func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
}
