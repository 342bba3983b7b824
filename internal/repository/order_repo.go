package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pos-engine/internal/domain"
)

type OrderRepositoryInterface interface {
	CreateOrder(ctx context.Context, o domain.Order) (int64, error)
	GetOrder(ctx context.Context, id int64) (domain.Order, bool, error)
	TouchOrder(ctx context.Context, q Queryer, id int64) error
	DeleteOrders(ctx context.Context, tx *sql.Tx, ids []int64) (int64, error)
}

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

func (or *OrderRepository) CreateOrder(ctx context.Context, o domain.Order) (int64, error) {
	var id int64
	err := or.db.QueryRowContext(ctx, `
		INSERT INTO orders (order_type, customer_id, address_id, partner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`, string(o.Type), o.CustomerID, o.AddressID, o.PartnerID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}
	return id, nil
}

func (or *OrderRepository) GetOrder(ctx context.Context, id int64) (domain.Order, bool, error) {
	var (
		o     domain.Order
		otype string
	)
	err := or.db.QueryRowContext(ctx, `
		SELECT id, order_type, customer_id, address_id, partner_id, created_at, updated_at
		FROM orders WHERE id = $1
	`, id).Scan(&o.ID, &otype, &o.CustomerID, &o.AddressID, &o.PartnerID, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("failed to get order: %w", err)
	}
	o.Type = domain.OrderType(otype)
	return o, true, nil
}

// TouchOrder bumps updated_at inside the same transaction as the cart
// mutation, so recency sorting and the view-all filter track mutations.
func (or *OrderRepository) TouchOrder(ctx context.Context, q Queryer, id int64) error {
	if _, err := q.ExecContext(ctx, `UPDATE orders SET updated_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to touch order: %w", err)
	}
	return nil
}

// DeleteOrders removes the given orders; lines, selections, price rows and
// the active-order marker go with them via cascade. Returns how many order
// rows were actually deleted.
func (or *OrderRepository) DeleteOrders(ctx context.Context, tx *sql.Tx, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted orders: %w", err)
	}
	return n, nil
}
