package service

import (
	"context"
	"database/sql"
	"fmt"

	"pos-engine/internal/domain"
	"pos-engine/internal/pricing"
	"pos-engine/internal/repository"
)

// CartServiceInterface mutates one order's cart: line quantities and the
// add-on/charge selections. Every successful mutation recomputes the price
// record inside the same transaction, and all writes for one order are
// serialized. The changed flag is false when the call was a benign no-op
// (missing order, missing catalog row, decrease on an absent line).
type CartServiceInterface interface {
	MutateQuantity(ctx context.Context, orderID, productID int64, delta int) (domain.PriceRecord, bool, error)
	ToggleAddOn(ctx context.Context, orderID, addonID int64) (domain.PriceRecord, bool, error)
	ToggleCharge(ctx context.Context, orderID, chargeID int64) (domain.PriceRecord, bool, error)
}

type CartService struct {
	locks   *orderLocks
	tx      repository.TxRunnerInterface
	orders  repository.OrderRepositoryInterface
	cart    repository.CartRepositoryInterface
	catalog repository.CatalogRepositoryInterface
	pricer  pricing.EngineInterface
}

func NewCartService(
	locks *orderLocks,
	tx repository.TxRunnerInterface,
	orders repository.OrderRepositoryInterface,
	cart repository.CartRepositoryInterface,
	catalog repository.CatalogRepositoryInterface,
	pricer pricing.EngineInterface,
) CartServiceInterface {
	return &CartService{locks: locks, tx: tx, orders: orders, cart: cart, catalog: catalog, pricer: pricer}
}

func (cs *CartService) MutateQuantity(ctx context.Context, orderID, productID int64, delta int) (domain.PriceRecord, bool, error) {
	order, ok, err := cs.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.PriceRecord{}, false, err
	}
	if !ok {
		// order raced with a delete; nothing to do
		return domain.PriceRecord{}, false, nil
	}
	if delta > 0 {
		// creating a line for a product that no longer exists would be a
		// constraint violation; treat it as stale UI instead
		if _, ok, err := cs.catalog.GetProduct(ctx, productID); err != nil {
			return domain.PriceRecord{}, false, err
		} else if !ok {
			return domain.PriceRecord{}, false, nil
		}
	}

	unlock := cs.locks.Lock(orderID)
	defer unlock()

	var (
		rec     domain.PriceRecord
		changed bool
	)
	err = cs.tx.WithTx(ctx, func(tx *sql.Tx) error {
		_, ch, err := cs.cart.ApplyQuantityDelta(ctx, tx, orderID, productID, delta)
		if err != nil {
			return err
		}
		if !ch {
			return nil
		}
		changed = true
		if err := cs.orders.TouchOrder(ctx, tx, orderID); err != nil {
			return err
		}
		rec, err = cs.pricer.Recompute(ctx, tx, orderID, order.Type)
		return err
	})
	if err != nil {
		return domain.PriceRecord{}, false, fmt.Errorf("failed to mutate quantity: %w", err)
	}
	return rec, changed, nil
}

func (cs *CartService) ToggleAddOn(ctx context.Context, orderID, addonID int64) (domain.PriceRecord, bool, error) {
	order, ok, err := cs.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.PriceRecord{}, false, err
	}
	if !ok {
		return domain.PriceRecord{}, false, nil
	}
	if _, ok, err := cs.catalog.GetAddOn(ctx, addonID); err != nil {
		return domain.PriceRecord{}, false, err
	} else if !ok {
		return domain.PriceRecord{}, false, nil
	}

	unlock := cs.locks.Lock(orderID)
	defer unlock()

	var rec domain.PriceRecord
	err = cs.tx.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := cs.cart.ToggleAddOn(ctx, tx, orderID, addonID); err != nil {
			return err
		}
		if err := cs.orders.TouchOrder(ctx, tx, orderID); err != nil {
			return err
		}
		var err error
		rec, err = cs.pricer.Recompute(ctx, tx, orderID, order.Type)
		return err
	})
	if err != nil {
		return domain.PriceRecord{}, false, fmt.Errorf("failed to toggle add-on: %w", err)
	}
	return rec, true, nil
}

func (cs *CartService) ToggleCharge(ctx context.Context, orderID, chargeID int64) (domain.PriceRecord, bool, error) {
	order, ok, err := cs.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.PriceRecord{}, false, err
	}
	if !ok {
		return domain.PriceRecord{}, false, nil
	}
	if _, ok, err := cs.catalog.GetCharge(ctx, chargeID); err != nil {
		return domain.PriceRecord{}, false, err
	} else if !ok {
		return domain.PriceRecord{}, false, nil
	}

	unlock := cs.locks.Lock(orderID)
	defer unlock()

	var rec domain.PriceRecord
	err = cs.tx.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := cs.cart.ToggleCharge(ctx, tx, orderID, chargeID); err != nil {
			return err
		}
		if err := cs.orders.TouchOrder(ctx, tx, orderID); err != nil {
			return err
		}
		var err error
		rec, err = cs.pricer.Recompute(ctx, tx, orderID, order.Type)
		return err
	})
	if err != nil {
		return domain.PriceRecord{}, false, fmt.Errorf("failed to toggle charge: %w", err)
	}
	return rec, true, nil
}
