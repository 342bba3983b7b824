package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied at startup. Every reference back to orders(id) cascades,
// so deleting an order removes its lines, selections, price row and the
// active-order marker in one statement. cart_lines carries a real composite
// uniqueness constraint on (order_id, product_id); the quantity mutation path
// upserts against it.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		unit_price BIGINT NOT NULL CHECK (unit_price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id BIGSERIAL PRIMARY KEY,
		customer_id BIGINT REFERENCES customers(id) ON DELETE SET NULL,
		short TEXT NOT NULL,
		details TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS addon_items (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		price BIGINT NOT NULL CHECK (price >= 0),
		applicable BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS charges (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		amount BIGINT NOT NULL CHECK (amount >= 0),
		applies_to TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_type TEXT NOT NULL,
		customer_id BIGINT REFERENCES customers(id) ON DELETE SET NULL,
		address_id BIGINT REFERENCES addresses(id) ON DELETE SET NULL,
		partner_id BIGINT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cart_lines (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		quantity INT NOT NULL CHECK (quantity > 0),
		UNIQUE (order_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS order_addons (
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		addon_id BIGINT NOT NULL REFERENCES addon_items(id) ON DELETE CASCADE,
		PRIMARY KEY (order_id, addon_id)
	)`,
	`CREATE TABLE IF NOT EXISTS order_charges (
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		charge_id BIGINT NOT NULL REFERENCES charges(id) ON DELETE CASCADE,
		PRIMARY KEY (order_id, charge_id)
	)`,
	`CREATE TABLE IF NOT EXISTS order_prices (
		order_id BIGINT PRIMARY KEY REFERENCES orders(id) ON DELETE CASCADE,
		subtotal BIGINT NOT NULL CHECK (subtotal >= 0),
		discount BIGINT NOT NULL CHECK (discount >= 0),
		total BIGINT NOT NULL CHECK (total >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// single-row table: the persisted active-order marker
	`CREATE TABLE IF NOT EXISTS selected_order (
		one_row BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (one_row),
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cart_lines_order ON cart_lines (order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_updated ON orders (updated_at DESC)`,
}

// EnsureSchema creates all tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
