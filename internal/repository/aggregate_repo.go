package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pos-engine/internal/domain"
)

// AggregateRepositoryInterface is the read side: it composes joins across
// orders, customers, addresses, cart lines, selection join tables and price
// rows into display-ready aggregates.
type AggregateRepositoryInterface interface {
	// GetAggregate returns (zero, false, nil) for an unknown order id, which
	// callers treat as "record no longer exists".
	GetAggregate(ctx context.Context, orderID int64) (domain.OrderAggregate, bool, error)
	// ListAggregates returns aggregates matching the filter, sorted with the
	// active order first and then by recency. activeID <= 0 means no active
	// order.
	ListAggregates(ctx context.Context, f domain.ListFilter, activeID int64) ([]domain.OrderAggregate, error)
}

type AggregateRepository struct {
	db *sql.DB
}

func NewAggregateRepository(db *sql.DB) AggregateRepositoryInterface {
	return &AggregateRepository{db: db}
}

const headerQuery = `
SELECT o.id, o.order_type, o.customer_id, o.address_id, o.partner_id,
       o.created_at, o.updated_at,
       COALESCE(c.name, ''), COALESCE(c.phone, ''), COALESCE(a.short, '')
FROM orders o
LEFT JOIN customers c ON c.id = o.customer_id
LEFT JOIN addresses a ON a.id = o.address_id
`

func (ar *AggregateRepository) GetAggregate(ctx context.Context, orderID int64) (domain.OrderAggregate, bool, error) {
	aggs, err := ar.queryHeaders(ctx, headerQuery+`WHERE o.id = $1`, orderID)
	if err != nil {
		return domain.OrderAggregate{}, false, err
	}
	if len(aggs) == 0 {
		return domain.OrderAggregate{}, false, nil
	}
	if err := ar.attachDetails(ctx, aggs); err != nil {
		return domain.OrderAggregate{}, false, err
	}
	return aggs[0], true, nil
}

func (ar *AggregateRepository) ListAggregates(ctx context.Context, f domain.ListFilter, activeID int64) ([]domain.OrderAggregate, error) {
	// "active only" keeps orders touched today plus whatever order is
	// currently selected for checkout. The day boundary is computed here, not
	// by the database, so it matches the day buckets regardless of the server
	// session timezone.
	aggs, err := ar.queryHeaders(ctx, headerQuery+`
		WHERE ($1 = ''
			OR c.name ILIKE '%' || $1 || '%'
			OR c.phone ILIKE '%' || $1 || '%'
			OR a.short ILIKE '%' || $1 || '%'
			OR o.id::TEXT = $1)
		AND ($2 OR o.updated_at >= $4 OR o.id = $3)
		ORDER BY o.updated_at DESC
	`, f.Filter, f.ViewAll, activeID, domain.StartOfDay(time.Now()))
	if err != nil {
		return nil, err
	}
	if err := ar.attachDetails(ctx, aggs); err != nil {
		return nil, err
	}
	domain.SortAggregates(aggs, activeID)
	return aggs, nil
}

func (ar *AggregateRepository) queryHeaders(ctx context.Context, query string, args ...any) ([]domain.OrderAggregate, error) {
	rows, err := ar.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order headers: %w", err)
	}
	defer rows.Close()

	var out []domain.OrderAggregate
	for rows.Next() {
		var (
			a     domain.OrderAggregate
			otype string
		)
		if err := rows.Scan(
			&a.Order.ID, &otype, &a.Order.CustomerID, &a.Order.AddressID, &a.Order.PartnerID,
			&a.Order.CreatedAt, &a.Order.UpdatedAt,
			&a.CustomerName, &a.Phone, &a.AddressShort,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order header: %w", err)
		}
		a.Order.Type = domain.OrderType(otype)
		a.Lines = []domain.LineView{}
		a.AddOnIDs = []int64{}
		a.ChargeIDs = []int64{}
		out = append(out, a)
	}
	return out, rows.Err()
}

// attachDetails batch-loads lines, selection id lists and price rows for the
// header set and stitches them in.
func (ar *AggregateRepository) attachDetails(ctx context.Context, aggs []domain.OrderAggregate) error {
	if len(aggs) == 0 {
		return nil
	}
	ids := make([]int64, len(aggs))
	byID := make(map[int64]*domain.OrderAggregate, len(aggs))
	for i := range aggs {
		ids[i] = aggs[i].Order.ID
		byID[aggs[i].Order.ID] = &aggs[i]
	}

	rows, err := ar.db.QueryContext(ctx, `
		SELECT order_id, product_id, quantity FROM cart_lines
		WHERE order_id = ANY($1) ORDER BY id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			orderID int64
			lv      domain.LineView
		)
		if err := rows.Scan(&orderID, &lv.ProductID, &lv.Quantity); err != nil {
			return fmt.Errorf("failed to scan cart line: %w", err)
		}
		if a := byID[orderID]; a != nil {
			a.Lines = append(a.Lines, lv)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	addonRows, err := ar.db.QueryContext(ctx, `
		SELECT order_id, addon_id FROM order_addons
		WHERE order_id = ANY($1) ORDER BY addon_id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query add-on selections: %w", err)
	}
	defer addonRows.Close()
	for addonRows.Next() {
		var orderID, addonID int64
		if err := addonRows.Scan(&orderID, &addonID); err != nil {
			return fmt.Errorf("failed to scan add-on selection: %w", err)
		}
		if a := byID[orderID]; a != nil {
			a.AddOnIDs = append(a.AddOnIDs, addonID)
		}
	}
	if err := addonRows.Err(); err != nil {
		return err
	}

	chargeRows, err := ar.db.QueryContext(ctx, `
		SELECT order_id, charge_id FROM order_charges
		WHERE order_id = ANY($1) ORDER BY charge_id
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query charge selections: %w", err)
	}
	defer chargeRows.Close()
	for chargeRows.Next() {
		var orderID, chargeID int64
		if err := chargeRows.Scan(&orderID, &chargeID); err != nil {
			return fmt.Errorf("failed to scan charge selection: %w", err)
		}
		if a := byID[orderID]; a != nil {
			a.ChargeIDs = append(a.ChargeIDs, chargeID)
		}
	}
	if err := chargeRows.Err(); err != nil {
		return err
	}

	priceRows, err := ar.db.QueryContext(ctx, `
		SELECT order_id, subtotal, discount, total, updated_at
		FROM order_prices WHERE order_id = ANY($1)
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query price records: %w", err)
	}
	defer priceRows.Close()
	for priceRows.Next() {
		var rec domain.PriceRecord
		if err := priceRows.Scan(&rec.OrderID, &rec.Subtotal, &rec.Discount, &rec.Total, &rec.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan price record: %w", err)
		}
		if a := byID[rec.OrderID]; a != nil {
			a.Price = rec
		}
	}
	return priceRows.Err()
}
