package domain

import (
	"sort"
	"time"
)

// LineView is a cart line as the read side sees it: product and quantity.
type LineView struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderAggregate bundles everything the presentation layer needs for one
// order: the header row, resolved customer/address text, the line items, the
// chosen add-on/charge ids and the current price record.
type OrderAggregate struct {
	Order        Order       `json:"order"`
	CustomerName string      `json:"customer_name,omitempty"`
	Phone        string      `json:"phone,omitempty"`
	AddressShort string      `json:"address,omitempty"`
	Lines        []LineView  `json:"lines"`
	AddOnIDs     []int64     `json:"addon_ids"`
	ChargeIDs    []int64     `json:"charge_ids"`
	Price        PriceRecord `json:"price"`
}

// ListFilter narrows the aggregate listing. Filter is matched against
// customer name, phone, address text and the order id rendered as text.
type ListFilter struct {
	Filter  string
	ViewAll bool
}

// SortAggregates orders aggregates for display: the active order (if present)
// first, then most recently updated first. Stable so equal timestamps keep
// query order.
func SortAggregates(aggs []OrderAggregate, activeID int64) {
	sort.SliceStable(aggs, func(i, j int) bool {
		ai, aj := aggs[i].Order.ID == activeID, aggs[j].Order.ID == activeID
		if ai != aj {
			return ai
		}
		return aggs[i].Order.UpdatedAt.After(aggs[j].Order.UpdatedAt)
	})
}

// Date buckets for the grouped order list.
const (
	BucketToday     = "today"
	BucketYesterday = "yesterday"
	BucketEarlier   = "earlier"
)

// OrderGroup is a display grouping of sorted aggregates by coarse date. It is
// derived on every read, never stored.
type OrderGroup struct {
	Bucket string           `json:"bucket"`
	Orders []OrderAggregate `json:"orders"`
}

// StartOfDay returns midnight UTC of the given instant. Every "today"
// boundary in the system (day buckets and the active-only list filter) goes
// through this one function so they can never disagree.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// GroupByDay splits an already-sorted aggregate slice into today/yesterday/
// earlier buckets keyed off the order's update timestamp. Buckets with no
// orders are omitted.
func GroupByDay(aggs []OrderAggregate, now time.Time) []OrderGroup {
	today := StartOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	byBucket := map[string][]OrderAggregate{}
	for _, a := range aggs {
		ts := a.Order.UpdatedAt
		if ts.IsZero() {
			ts = a.Order.CreatedAt
		}
		switch {
		case !ts.Before(today):
			byBucket[BucketToday] = append(byBucket[BucketToday], a)
		case !ts.Before(yesterday):
			byBucket[BucketYesterday] = append(byBucket[BucketYesterday], a)
		default:
			byBucket[BucketEarlier] = append(byBucket[BucketEarlier], a)
		}
	}

	var out []OrderGroup
	for _, b := range []string{BucketToday, BucketYesterday, BucketEarlier} {
		if orders := byBucket[b]; len(orders) > 0 {
			out = append(out, OrderGroup{Bucket: b, Orders: orders})
		}
	}
	return out
}
