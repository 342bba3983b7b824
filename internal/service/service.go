package service

import (
	"go.uber.org/zap"

	"pos-engine/internal/events"
	"pos-engine/internal/pricing"
	"pos-engine/internal/repository"
)

// Service wires the cart, selection and order services over one shared
// per-order lock table and change bus.
type Service struct {
	Cart      CartServiceInterface
	Selection *SelectionManager
	Orders    *OrderService

	bus *changeBus
	log *zap.Logger
}

func New(repo *repository.Repository, pricer pricing.EngineInterface, pub events.PublisherInterface, log *zap.Logger) *Service {
	locks := newOrderLocks()
	bus := newChangeBus()
	cart := NewCartService(locks, repo.Tx, repo.Orders, repo.Cart, repo.Catalog, pricer)
	sel := NewSelectionManager(repo.Orders, repo.Selection)
	orders := NewOrderService(log, locks, repo, cart, sel, pricer, pub, bus)
	return &Service{
		Cart:      cart,
		Selection: sel,
		Orders:    orders,
		bus:       bus,
		log:       log,
	}
}

// NewWatcher creates a live subscription against the order list.
func (s *Service) NewWatcher() *Watcher {
	return NewWatcher(s.Orders, s.bus, s.log)
}
