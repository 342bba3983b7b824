package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pos-engine/internal/domain"
)

// CatalogRepositoryInterface serves the reference tables (products, add-ons,
// charges, customers, addresses). The single-row getters report existence
// with a flag, never an error, so stale UI ids stay benign.
type CatalogRepositoryInterface interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, bool, error)
	GetAddOn(ctx context.Context, id int64) (domain.AddOnItem, bool, error)
	GetCharge(ctx context.Context, id int64) (domain.Charge, bool, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListAddOns(ctx context.Context) ([]domain.AddOnItem, error)
	ListCharges(ctx context.Context) ([]domain.Charge, error)
	CreateProduct(ctx context.Context, p domain.Product) (int64, error)
	CreateAddOn(ctx context.Context, a domain.AddOnItem) (int64, error)
	CreateCharge(ctx context.Context, c domain.Charge) (int64, error)
	CreateCustomer(ctx context.Context, c domain.Customer) (int64, error)
	CreateAddress(ctx context.Context, a domain.Address) (int64, error)
}

type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(db *sql.DB) CatalogRepositoryInterface {
	return &CatalogRepository{db: db}
}

func (cr *CatalogRepository) GetProduct(ctx context.Context, id int64) (domain.Product, bool, error) {
	var p domain.Product
	err := cr.db.QueryRowContext(ctx,
		`SELECT id, name, unit_price FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.UnitPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, false, nil
	}
	if err != nil {
		return domain.Product{}, false, fmt.Errorf("failed to get product: %w", err)
	}
	return p, true, nil
}

func (cr *CatalogRepository) GetAddOn(ctx context.Context, id int64) (domain.AddOnItem, bool, error) {
	var a domain.AddOnItem
	err := cr.db.QueryRowContext(ctx,
		`SELECT id, name, price, applicable FROM addon_items WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.Price, &a.Applicable)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AddOnItem{}, false, nil
	}
	if err != nil {
		return domain.AddOnItem{}, false, fmt.Errorf("failed to get add-on: %w", err)
	}
	return a, true, nil
}

func (cr *CatalogRepository) GetCharge(ctx context.Context, id int64) (domain.Charge, bool, error) {
	var c domain.Charge
	err := cr.db.QueryRowContext(ctx,
		`SELECT id, name, amount, applies_to FROM charges WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Amount, &c.AppliesTo)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Charge{}, false, nil
	}
	if err != nil {
		return domain.Charge{}, false, fmt.Errorf("failed to get charge: %w", err)
	}
	return c, true, nil
}

func (cr *CatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := cr.db.QueryContext(ctx, `SELECT id, name, unit_price FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (cr *CatalogRepository) ListAddOns(ctx context.Context) ([]domain.AddOnItem, error) {
	rows, err := cr.db.QueryContext(ctx, `SELECT id, name, price, applicable FROM addon_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list add-ons: %w", err)
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

func (cr *CatalogRepository) ListCharges(ctx context.Context) ([]domain.Charge, error) {
	rows, err := cr.db.QueryContext(ctx, `SELECT id, name, amount, applies_to FROM charges ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list charges: %w", err)
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

func (cr *CatalogRepository) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	var id int64
	err := cr.db.QueryRowContext(ctx,
		`INSERT INTO products (name, unit_price) VALUES ($1, $2) RETURNING id`,
		p.Name, p.UnitPrice,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}
	return id, nil
}

func (cr *CatalogRepository) CreateAddOn(ctx context.Context, a domain.AddOnItem) (int64, error) {
	var id int64
	err := cr.db.QueryRowContext(ctx,
		`INSERT INTO addon_items (name, price, applicable) VALUES ($1, $2, $3) RETURNING id`,
		a.Name, a.Price, a.Applicable,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert add-on: %w", err)
	}
	return id, nil
}

func (cr *CatalogRepository) CreateCharge(ctx context.Context, c domain.Charge) (int64, error) {
	var id int64
	err := cr.db.QueryRowContext(ctx,
		`INSERT INTO charges (name, amount, applies_to) VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.Amount, c.AppliesTo,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert charge: %w", err)
	}
	return id, nil
}

func (cr *CatalogRepository) CreateCustomer(ctx context.Context, c domain.Customer) (int64, error) {
	var id int64
	err := cr.db.QueryRowContext(ctx,
		`INSERT INTO customers (name, phone) VALUES ($1, $2) RETURNING id`,
		c.Name, c.Phone,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert customer: %w", err)
	}
	return id, nil
}

func (cr *CatalogRepository) CreateAddress(ctx context.Context, a domain.Address) (int64, error) {
	var id int64
	err := cr.db.QueryRowContext(ctx,
		`INSERT INTO addresses (customer_id, short, details) VALUES ($1, $2, $3) RETURNING id`,
		a.CustomerID, a.Short, a.Details,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert address: %w", err)
	}
	return id, nil
}
