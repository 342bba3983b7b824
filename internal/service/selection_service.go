package service

import (
	"context"
	"sync"

	"pos-engine/internal/repository"
)

// SelectionManager tracks the two pieces of selection state with different
// lifetimes: the persisted single active order (checkout target) and the
// transient multi-select id set for bulk actions. They are deliberately kept
// apart; clearing one never touches the other except through order deletion.
type SelectionManager struct {
	orders repository.OrderRepositoryInterface
	store  repository.SelectionRepositoryInterface

	mu     sync.Mutex
	picked map[int64]struct{}
}

func NewSelectionManager(orders repository.OrderRepositoryInterface, store repository.SelectionRepositoryInterface) *SelectionManager {
	return &SelectionManager{orders: orders, store: store, picked: map[int64]struct{}{}}
}

// SelectActive marks the order as the checkout target, replacing any previous
// one. An id that no longer exists is ignored silently (stale UI state).
func (sm *SelectionManager) SelectActive(ctx context.Context, orderID int64) error {
	_, ok, err := sm.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return sm.store.SetActiveOrder(ctx, orderID)
}

// Active returns the persisted active-order id, if any.
func (sm *SelectionManager) Active(ctx context.Context) (int64, bool, error) {
	return sm.store.GetActiveOrder(ctx)
}

// Toggle flips an order in or out of the multi-select set.
func (sm *SelectionManager) Toggle(orderID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.picked[orderID]; ok {
		delete(sm.picked, orderID)
	} else {
		sm.picked[orderID] = struct{}{}
	}
}

// SelectAll replaces the set with every currently visible order id.
func (sm *SelectionManager) SelectAll(visible []int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.picked = make(map[int64]struct{}, len(visible))
	for _, id := range visible {
		sm.picked[id] = struct{}{}
	}
}

// Deselect empties the multi-select set.
func (sm *SelectionManager) Deselect() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.picked = map[int64]struct{}{}
}

// Selected returns a snapshot of the multi-select set.
func (sm *SelectionManager) Selected() []int64 {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	out := make([]int64, 0, len(sm.picked))
	for id := range sm.picked {
		out = append(out, id)
	}
	return out
}

func (sm *SelectionManager) IsSelected(orderID int64) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	_, ok := sm.picked[orderID]
	return ok
}

// Prune drops deleted order ids from the multi-select set.
func (sm *SelectionManager) Prune(deleted []int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, id := range deleted {
		delete(sm.picked, id)
	}
}
