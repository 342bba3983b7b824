package domain

import "time"

// Events published for the read-only print/export consumers. They observe a
// fully priced order; they never write back.

type OrderPricedEvent struct {
	OrderID   int64     `json:"order_id"`
	OrderType OrderType `json:"order_type"`
	Subtotal  int64     `json:"subtotal"`
	Discount  int64     `json:"discount"`
	Total     int64     `json:"total"`
	PricedAt  time.Time `json:"priced_at"`
}

type OrderDeletedEvent struct {
	OrderIDs  []int64   `json:"order_ids"`
	DeletedAt time.Time `json:"deleted_at"`
}
