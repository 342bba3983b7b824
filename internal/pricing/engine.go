package pricing

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pos-engine/internal/domain"
)

// Queryer is the slice of database/sql shared by *sql.DB and *sql.Tx. The
// engine always runs against whatever the caller is in the middle of, so a
// quantity change and its recomputed price commit together.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// StoreInterface reads the live pricing inputs and persists the result.
// Reads go through the caller's transaction, never a cache, so the stored
// price can never be stale relative to the lines that produced it.
type StoreInterface interface {
	PricedLines(ctx context.Context, q Queryer, orderID int64) ([]Line, error)
	SelectedAddOns(ctx context.Context, q Queryer, orderID int64) ([]domain.AddOnItem, error)
	SelectedCharges(ctx context.Context, q Queryer, orderID int64) ([]domain.Charge, error)
	SavePrice(ctx context.Context, q Queryer, rec domain.PriceRecord) error
}

type EngineInterface interface {
	Recompute(ctx context.Context, q Queryer, orderID int64, t domain.OrderType) (domain.PriceRecord, error)
}

type Engine struct {
	store StoreInterface
	rules Rules
	log   *zap.Logger
}

func NewEngine(store StoreInterface, rules Rules, log *zap.Logger) EngineInterface {
	return &Engine{store: store, rules: rules, log: log}
}

// Recompute reprices the order from its live rows and upserts the price
// record inside the caller's transaction.
func (e *Engine) Recompute(ctx context.Context, q Queryer, orderID int64, t domain.OrderType) (domain.PriceRecord, error) {
	lines, err := e.store.PricedLines(ctx, q, orderID)
	if err != nil {
		return domain.PriceRecord{}, fmt.Errorf("failed to load cart lines: %w", err)
	}
	addOns, err := e.store.SelectedAddOns(ctx, q, orderID)
	if err != nil {
		return domain.PriceRecord{}, fmt.Errorf("failed to load add-on selections: %w", err)
	}
	charges, err := e.store.SelectedCharges(ctx, q, orderID)
	if err != nil {
		return domain.PriceRecord{}, fmt.Errorf("failed to load charge selections: %w", err)
	}

	quote, clamped := Compute(lines, addOns, charges, t, e.rules)
	if clamped {
		e.log.Warn("discount capped at subtotal",
			zap.Int64("order_id", orderID),
			zap.Int64("subtotal", quote.Subtotal),
			zap.Int64("discount", quote.Discount))
	}

	rec := domain.PriceRecord{
		OrderID:   orderID,
		Subtotal:  quote.Subtotal,
		Discount:  quote.Discount,
		Total:     quote.Total,
		UpdatedAt: time.Now().UTC(),
	}
	if err := e.store.SavePrice(ctx, q, rec); err != nil {
		return domain.PriceRecord{}, fmt.Errorf("failed to save price record: %w", err)
	}
	return rec, nil
}
