package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type CartRepositoryInterface interface {
	// ApplyQuantityDelta adjusts the line for (orderID, productID) by delta,
	// creating it on first increase and deleting it when it reaches zero.
	// Returns the resulting quantity (0 means the line is gone) and whether
	// anything changed at all.
	ApplyQuantityDelta(ctx context.Context, q Queryer, orderID, productID int64, delta int) (int, bool, error)
	ToggleAddOn(ctx context.Context, q Queryer, orderID, addonID int64) (bool, error)
	ToggleCharge(ctx context.Context, q Queryer, orderID, chargeID int64) (bool, error)
}

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) CartRepositoryInterface {
	return &CartRepository{db: db}
}

func (cr *CartRepository) ApplyQuantityDelta(ctx context.Context, q Queryer, orderID, productID int64, delta int) (int, bool, error) {
	if delta == 0 {
		return 0, false, nil
	}

	if delta > 0 {
		var qty int
		err := q.QueryRowContext(ctx, `
			INSERT INTO cart_lines (order_id, product_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (order_id, product_id)
			DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
			RETURNING quantity
		`, orderID, productID, delta).Scan(&qty)
		if err != nil {
			return 0, false, fmt.Errorf("failed to upsert cart line: %w", err)
		}
		return qty, true, nil
	}

	var qty int
	err := q.QueryRowContext(ctx, `
		SELECT quantity FROM cart_lines WHERE order_id = $1 AND product_id = $2
	`, orderID, productID).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		// decrease on a missing line is a no-op
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read cart line: %w", err)
	}

	if qty+delta <= 0 {
		if _, err := q.ExecContext(ctx, `
			DELETE FROM cart_lines WHERE order_id = $1 AND product_id = $2
		`, orderID, productID); err != nil {
			return 0, false, fmt.Errorf("failed to delete cart line: %w", err)
		}
		return 0, true, nil
	}

	if _, err := q.ExecContext(ctx, `
		UPDATE cart_lines SET quantity = quantity + $3 WHERE order_id = $1 AND product_id = $2
	`, orderID, productID, delta); err != nil {
		return 0, false, fmt.Errorf("failed to update cart line: %w", err)
	}
	return qty + delta, true, nil
}

// ToggleAddOn flips the add-on selection for the order. Returns whether the
// add-on is selected after the call.
func (cr *CartRepository) ToggleAddOn(ctx context.Context, q Queryer, orderID, addonID int64) (bool, error) {
	res, err := q.ExecContext(ctx, `
		DELETE FROM order_addons WHERE order_id = $1 AND addon_id = $2
	`, orderID, addonID)
	if err != nil {
		return false, fmt.Errorf("failed to deselect add-on: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deselected add-ons: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := q.ExecContext(ctx, `
		INSERT INTO order_addons (order_id, addon_id) VALUES ($1, $2)
	`, orderID, addonID); err != nil {
		return false, fmt.Errorf("failed to select add-on: %w", err)
	}
	return true, nil
}

// ToggleCharge flips the charge selection for the order, same shape as
// ToggleAddOn.
func (cr *CartRepository) ToggleCharge(ctx context.Context, q Queryer, orderID, chargeID int64) (bool, error) {
	res, err := q.ExecContext(ctx, `
		DELETE FROM order_charges WHERE order_id = $1 AND charge_id = $2
	`, orderID, chargeID)
	if err != nil {
		return false, fmt.Errorf("failed to deselect charge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deselected charges: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := q.ExecContext(ctx, `
		INSERT INTO order_charges (order_id, charge_id) VALUES ($1, $2)
	`, orderID, chargeID); err != nil {
		return false, fmt.Errorf("failed to select charge: %w", err)
	}
	return true, nil
}
