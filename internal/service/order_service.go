package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pos-engine/internal/domain"
	"pos-engine/internal/events"
	"pos-engine/internal/pricing"
	"pos-engine/internal/repository"
)

// OrderServiceInterface is the public contract of the order aggregate
// service. Mutating calls never return an error: outcomes are mapped onto
// Result, not-found targets are benign no-ops, and validation problems come
// back as warnings on a successful Result.
type OrderServiceInterface interface {
	ListOrders(ctx context.Context, f domain.ListFilter) ([]domain.OrderGroup, error)
	GetAggregate(ctx context.Context, orderID int64) (domain.OrderAggregate, bool, error)
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) domain.CreateOrderResponse
	MutateQuantity(ctx context.Context, orderID, productID int64, delta int) domain.Result
	ToggleAddOn(ctx context.Context, orderID, addonID int64) domain.Result
	ToggleCharge(ctx context.Context, orderID, chargeID int64) domain.Result
	SelectActiveOrder(ctx context.Context, orderID int64) domain.Result
	DeleteOrders(ctx context.Context, ids []int64) domain.Result
	DeleteSelected(ctx context.Context) domain.Result
	CompleteCheckout(ctx context.Context, orderID int64) domain.Result
	WarmupCatalogCache(ctx context.Context) error
}

type OrderService struct {
	log    *zap.Logger
	locks  *orderLocks
	tx     repository.TxRunnerInterface
	orders repository.OrderRepositoryInterface
	agg    repository.AggregateRepositoryInterface
	seln   repository.SelectionRepositoryInterface
	cat    repository.CatalogRepositoryInterface
	cart   CartServiceInterface
	sel    *SelectionManager
	pricer pricing.EngineInterface
	pub    events.PublisherInterface
	bus    *changeBus
}

func NewOrderService(
	log *zap.Logger,
	locks *orderLocks,
	repo *repository.Repository,
	cart CartServiceInterface,
	sel *SelectionManager,
	pricer pricing.EngineInterface,
	pub events.PublisherInterface,
	bus *changeBus,
) *OrderService {
	return &OrderService{
		log:    log,
		locks:  locks,
		tx:     repo.Tx,
		orders: repo.Orders,
		agg:    repo.Aggregate,
		seln:   repo.Selection,
		cat:    repo.Catalog,
		cart:   cart,
		sel:    sel,
		pricer: pricer,
		pub:    pub,
		bus:    bus,
	}
}

// ListOrders returns the filtered, sorted aggregates grouped by coarse date
// bucket, with the active order (if visible) sorted first.
func (s *OrderService) ListOrders(ctx context.Context, f domain.ListFilter) ([]domain.OrderGroup, error) {
	activeID, _, err := s.sel.Active(ctx)
	if err != nil {
		return nil, err
	}
	aggs, err := s.agg.ListAggregates(ctx, f, activeID)
	if err != nil {
		return nil, err
	}
	return domain.GroupByDay(aggs, time.Now()), nil
}

func (s *OrderService) GetAggregate(ctx context.Context, orderID int64) (domain.OrderAggregate, bool, error) {
	return s.agg.GetAggregate(ctx, orderID)
}

func (s *OrderService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) domain.CreateOrderResponse {
	t := domain.OrderType(req.OrderType)
	if !t.Valid() {
		return domain.CreateOrderResponse{Result: domain.ErrResult("invalid order type")}
	}

	// soft invariant: delivery-ish orders should carry an address; the write
	// goes through either way
	var warning string
	if t.NeedsAddress() && req.AddressID == nil {
		warning = "order type expects a delivery address"
	}

	order := domain.Order{
		Type:       t,
		CustomerID: req.CustomerID,
		AddressID:  req.AddressID,
		PartnerID:  req.PartnerID,
	}
	id, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		s.log.Error("create order failed", zap.Error(err))
		return domain.CreateOrderResponse{Result: domain.ErrResult("failed to create order")}
	}

	// seed the price row so the aggregate never shows an order without one
	err = s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := s.pricer.Recompute(ctx, tx, id, t)
		return err
	})
	if err != nil {
		s.log.Error("initial price compute failed", zap.Int64("order_id", id), zap.Error(err))
		return domain.CreateOrderResponse{OrderID: id, Result: domain.ErrResult("failed to price new order")}
	}

	s.bus.Notify()
	res := domain.OKResult("order created").WithWarning(warning)
	return domain.CreateOrderResponse{OrderID: id, Result: res}
}

func (s *OrderService) MutateQuantity(ctx context.Context, orderID, productID int64, delta int) domain.Result {
	rec, changed, err := s.cart.MutateQuantity(ctx, orderID, productID, delta)
	if err != nil {
		s.log.Error("quantity mutation failed",
			zap.Int64("order_id", orderID), zap.Int64("product_id", productID), zap.Error(err))
		return domain.ErrResult("failed to update quantity")
	}
	if !changed {
		return domain.OKResult("nothing to update")
	}
	s.afterPriceChange(ctx, orderID, rec)
	return domain.OKResult("quantity updated")
}

func (s *OrderService) ToggleAddOn(ctx context.Context, orderID, addonID int64) domain.Result {
	rec, changed, err := s.cart.ToggleAddOn(ctx, orderID, addonID)
	if err != nil {
		s.log.Error("add-on toggle failed",
			zap.Int64("order_id", orderID), zap.Int64("addon_id", addonID), zap.Error(err))
		return domain.ErrResult("failed to toggle add-on")
	}
	if !changed {
		return domain.OKResult("add-on no longer exists")
	}
	s.afterPriceChange(ctx, orderID, rec)
	return domain.OKResult("add-on updated")
}

func (s *OrderService) ToggleCharge(ctx context.Context, orderID, chargeID int64) domain.Result {
	rec, changed, err := s.cart.ToggleCharge(ctx, orderID, chargeID)
	if err != nil {
		s.log.Error("charge toggle failed",
			zap.Int64("order_id", orderID), zap.Int64("charge_id", chargeID), zap.Error(err))
		return domain.ErrResult("failed to toggle charge")
	}
	if !changed {
		return domain.OKResult("charge no longer exists")
	}
	s.afterPriceChange(ctx, orderID, rec)
	return domain.OKResult("charge updated")
}

func (s *OrderService) SelectActiveOrder(ctx context.Context, orderID int64) domain.Result {
	if err := s.sel.SelectActive(ctx, orderID); err != nil {
		s.log.Error("select active order failed", zap.Int64("order_id", orderID), zap.Error(err))
		return domain.ErrResult("failed to select order")
	}
	s.bus.Notify()
	return domain.OKResult("order selected")
}

// DeleteOrders removes the orders in one transaction. Cascade takes the cart
// lines, selections and price rows; the active-order marker is cleared in the
// same transaction when it points at one of the deleted ids, and the
// multi-select set is pruned afterwards.
func (s *OrderService) DeleteOrders(ctx context.Context, ids []int64) domain.Result {
	if len(ids) == 0 {
		return domain.OKResult("nothing to delete")
	}

	unlock := s.locks.LockAll(ids)
	defer unlock()

	activeID, hasActive, err := s.sel.Active(ctx)
	if err != nil {
		s.log.Error("active order lookup failed", zap.Error(err))
		return domain.ErrResult("failed to delete orders")
	}
	activeAmongDeleted := false
	if hasActive {
		for _, id := range ids {
			if id == activeID {
				activeAmongDeleted = true
				break
			}
		}
	}

	var deleted int64
	err = s.tx.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		deleted, err = s.orders.DeleteOrders(ctx, tx, ids)
		if err != nil {
			return err
		}
		if activeAmongDeleted {
			return s.seln.ClearActiveOrder(ctx, tx)
		}
		return nil
	})
	if err != nil {
		s.log.Error("delete orders failed", zap.Int64s("ids", ids), zap.Error(err))
		return domain.ErrResult("failed to delete orders")
	}

	s.sel.Prune(ids)
	if deleted == 0 {
		// nothing was removed, so consumers have nothing to observe
		return domain.OKResult("orders already gone")
	}
	s.publishDeleted(ctx, ids)
	s.bus.Notify()
	return domain.OKResult("orders deleted")
}

// DeleteSelected deletes everything in the multi-select set.
func (s *OrderService) DeleteSelected(ctx context.Context) domain.Result {
	return s.DeleteOrders(ctx, s.sel.Selected())
}

// CompleteCheckout publishes the final priced aggregate for the print/export
// consumers and flushes the order's rows.
func (s *OrderService) CompleteCheckout(ctx context.Context, orderID int64) domain.Result {
	agg, ok, err := s.agg.GetAggregate(ctx, orderID)
	if err != nil {
		s.log.Error("checkout aggregate load failed", zap.Int64("order_id", orderID), zap.Error(err))
		return domain.ErrResult("failed to complete checkout")
	}
	if !ok {
		return domain.OKResult("order no longer exists")
	}

	if err := s.pub.OrderPriced(ctx, domain.OrderPricedEvent{
		OrderID:   orderID,
		OrderType: agg.Order.Type,
		Subtotal:  agg.Price.Subtotal,
		Discount:  agg.Price.Discount,
		Total:     agg.Price.Total,
		PricedAt:  agg.Price.UpdatedAt,
	}); err != nil {
		s.log.Error("checkout event publish failed", zap.Int64("order_id", orderID), zap.Error(err))
	}

	if res := s.DeleteOrders(ctx, []int64{orderID}); !res.OK {
		return res
	}
	return domain.OKResult("checkout complete")
}

// WarmupCatalogCache pre-reads the catalog so the first toggles hit warm
// lookups. List fetches run concurrently; a failure of any one aborts.
func (s *OrderService) WarmupCatalogCache(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.cat.ListProducts(gctx)
		if err != nil {
			return err
		}
		for _, p := range products {
			if _, _, err := s.cat.GetProduct(gctx, p.ID); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		addOns, err := s.cat.ListAddOns(gctx)
		if err != nil {
			return err
		}
		for _, a := range addOns {
			if _, _, err := s.cat.GetAddOn(gctx, a.ID); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		charges, err := s.cat.ListCharges(gctx)
		if err != nil {
			return err
		}
		for _, c := range charges {
			if _, _, err := s.cat.GetCharge(gctx, c.ID); err != nil {
				return err
			}
		}
		return nil
	})
	return g.Wait()
}

// afterPriceChange runs once a mutation committed: notify read subscriptions
// (commit order is preserved because this happens strictly after WithTx) and
// emit the priced event. Publish failures are logged, never surfaced; the
// consumers are read-only collaborators.
func (s *OrderService) afterPriceChange(ctx context.Context, orderID int64, rec domain.PriceRecord) {
	s.bus.Notify()

	order, ok, err := s.orders.GetOrder(ctx, orderID)
	if err != nil || !ok {
		return
	}
	if err := s.pub.OrderPriced(ctx, domain.OrderPricedEvent{
		OrderID:   orderID,
		OrderType: order.Type,
		Subtotal:  rec.Subtotal,
		Discount:  rec.Discount,
		Total:     rec.Total,
		PricedAt:  rec.UpdatedAt,
	}); err != nil {
		s.log.Error("priced event publish failed", zap.Int64("order_id", orderID), zap.Error(err))
	}
}

func (s *OrderService) publishDeleted(ctx context.Context, ids []int64) {
	if err := s.pub.OrdersDeleted(ctx, domain.OrderDeletedEvent{
		OrderIDs:  ids,
		DeletedAt: time.Now().UTC(),
	}); err != nil {
		s.log.Error("deleted event publish failed", zap.Int64s("ids", ids), zap.Error(err))
	}
}
