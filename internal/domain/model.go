package domain

import (
	"strings"
	"time"
)

// OrderType selects which charges apply and whether an address is expected.
type OrderType string

const (
	DineIn   OrderType = "dine_in"
	DineOut  OrderType = "dine_out"
	Delivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	return t == DineIn || t == DineOut || t == Delivery
}

// NeedsAddress reports whether orders of this type are expected to carry a
// delivery address. Checked at write time only, never enforced by the schema.
func (t OrderType) NeedsAddress() bool {
	return t == DineOut || t == Delivery
}

type Order struct {
	ID         int64     `json:"id"`
	Type       OrderType `json:"order_type"`
	CustomerID *int64    `json:"customer_id,omitempty"`
	AddressID  *int64    `json:"address_id,omitempty"`
	PartnerID  *int64    `json:"partner_id,omitempty"` // delivery partner (employee), no table of its own
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CartLine struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int // always > 0; a zero-quantity line is deleted instead
}

type Product struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"` // minor units
}

type AddOnItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`      // charged once per order, not per unit
	Applicable bool   `json:"applicable"` // non-applicable add-ons contribute 0 even when selected
}

// Charge is a conditional fee (delivery, packing) keyed by order type.
// AppliesTo holds a comma-separated list of order types.
type Charge struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
	AppliesTo string `json:"applies_to"`
}

// Applies reports whether the charge participates for the given order type.
func (c Charge) Applies(t OrderType) bool {
	for _, s := range strings.Split(c.AppliesTo, ",") {
		if OrderType(strings.TrimSpace(s)) == t {
			return true
		}
	}
	return false
}

type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Address struct {
	ID         int64  `json:"id"`
	CustomerID *int64 `json:"customer_id,omitempty"`
	Short      string `json:"short"`
	Details    string `json:"details,omitempty"`
}

// PriceRecord is the denormalized price row, 1:1 with its order. It is
// replaced by the pricing engine after every cart mutation and never edited
// directly.
type PriceRecord struct {
	OrderID   int64     `json:"order_id"`
	Subtotal  int64     `json:"subtotal"`
	Discount  int64     `json:"discount"`
	Total     int64     `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}
