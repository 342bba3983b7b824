package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderLocksSerializeSameOrder(t *testing.T) {
	locks := newOrderLocks()

	var mu sync.Mutex
	inCritical := 0
	maxConcurrent := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.Lock(42)
			defer release()

			mu.Lock()
			inCritical++
			if inCritical > maxConcurrent {
				maxConcurrent = inCritical
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inCritical--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxConcurrent)
	assert.Empty(t, locks.locks, "released entries must be evicted")
}

func TestOrderLocksDistinctOrdersDoNotContend(t *testing.T) {
	locks := newOrderLocks()

	releaseA := locks.Lock(1)
	defer releaseA()

	done := make(chan struct{})
	go func() {
		releaseB := locks.Lock(2)
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on a different order id blocked")
	}
}

func TestLockAllDedupesAndDoesNotDeadlock(t *testing.T) {
	locks := newOrderLocks()

	// duplicate ids must not self-deadlock
	release := locks.LockAll([]int64{5, 3, 5, 3})
	release()
	assert.Empty(t, locks.locks)

	// opposite acquisition orders resolve via sorted locking
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		ids := []int64{1, 2, 3}
		if i == 1 {
			ids = []int64{3, 2, 1}
		}
		wg.Add(1)
		go func(ids []int64) {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				release := locks.LockAll(ids)
				release()
			}
		}(ids)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("bulk locks deadlocked")
	}
}
