package repository

import (
	"context"
	"fmt"

	"pos-engine/internal/domain"
	"pos-engine/internal/pricing"
)

// PricingStore feeds the pricing engine from the live order rows. It is
// stateless: every method runs on the Queryer the engine hands it, normally
// the mutation's transaction.
type PricingStore struct{}

func NewPricingStore() pricing.StoreInterface {
	return PricingStore{}
}

func (ps PricingStore) PricedLines(ctx context.Context, q pricing.Queryer, orderID int64) ([]pricing.Line, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT cl.product_id, cl.quantity, p.unit_price
		FROM cart_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.order_id = $1
		ORDER BY cl.id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query priced lines: %w", err)
	}
	defer rows.Close()

	var out []pricing.Line
	for rows.Next() {
		var l pricing.Line
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan priced line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (ps PricingStore) SelectedAddOns(ctx context.Context, q pricing.Queryer, orderID int64) ([]domain.AddOnItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT a.id, a.name, a.price, a.applicable
		FROM order_addons oa
		JOIN addon_items a ON a.id = oa.addon_id
		WHERE oa.order_id = $1
		ORDER BY a.id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query selected add-ons: %w", err)
	}
	defer rows.Close()

	var out []domain.AddOnItem
	for rows.Next() {
		var a domain.AddOnItem
		if err := rows.Scan(&a.ID, &a.Name, &a.Price, &a.Applicable); err != nil {
			return nil, fmt.Errorf("failed to scan add-on: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (ps PricingStore) SelectedCharges(ctx context.Context, q pricing.Queryer, orderID int64) ([]domain.Charge, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT c.id, c.name, c.amount, c.applies_to
		FROM order_charges oc
		JOIN charges c ON c.id = oc.charge_id
		WHERE oc.order_id = $1
		ORDER BY c.id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query selected charges: %w", err)
	}
	defer rows.Close()

	var out []domain.Charge
	for rows.Next() {
		var c domain.Charge
		if err := rows.Scan(&c.ID, &c.Name, &c.Amount, &c.AppliesTo); err != nil {
			return nil, fmt.Errorf("failed to scan charge: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (ps PricingStore) SavePrice(ctx context.Context, q pricing.Queryer, rec domain.PriceRecord) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO order_prices (order_id, subtotal, discount, total, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (order_id) DO UPDATE SET
		  subtotal = EXCLUDED.subtotal,
		  discount = EXCLUDED.discount,
		  total = EXCLUDED.total,
		  updated_at = EXCLUDED.updated_at
	`, rec.OrderID, rec.Subtotal, rec.Discount, rec.Total, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert price record: %w", err)
	}
	return nil
}
