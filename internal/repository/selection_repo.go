package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SelectionRepositoryInterface owns the one-row active-order marker. The
// marker survives restarts; it also disappears with its order through the
// schema cascade.
type SelectionRepositoryInterface interface {
	SetActiveOrder(ctx context.Context, orderID int64) error
	GetActiveOrder(ctx context.Context) (int64, bool, error)
	ClearActiveOrder(ctx context.Context, q Queryer) error
}

type SelectionRepository struct {
	db *sql.DB
}

func NewSelectionRepository(db *sql.DB) SelectionRepositoryInterface {
	return &SelectionRepository{db: db}
}

func (sr *SelectionRepository) SetActiveOrder(ctx context.Context, orderID int64) error {
	_, err := sr.db.ExecContext(ctx, `
		INSERT INTO selected_order (one_row, order_id) VALUES (TRUE, $1)
		ON CONFLICT (one_row) DO UPDATE SET order_id = EXCLUDED.order_id
	`, orderID)
	if err != nil {
		return fmt.Errorf("failed to set active order: %w", err)
	}
	return nil
}

func (sr *SelectionRepository) GetActiveOrder(ctx context.Context) (int64, bool, error) {
	var id int64
	err := sr.db.QueryRowContext(ctx, `SELECT order_id FROM selected_order`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get active order: %w", err)
	}
	return id, true, nil
}

func (sr *SelectionRepository) ClearActiveOrder(ctx context.Context, q Queryer) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM selected_order`); err != nil {
		return fmt.Errorf("failed to clear active order: %w", err)
	}
	return nil
}
