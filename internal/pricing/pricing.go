package pricing

import "pos-engine/internal/domain"

// Line is a cart line joined with its product's unit price.
type Line struct {
	ProductID int64
	Quantity  int
	UnitPrice int64
}

// Quote is the computed price of one order. All values are minor units.
type Quote struct {
	Subtotal int64
	Discount int64
	Total    int64
}

// DiscountRule deducts Flat plus Percent of the subtotal for orders of the
// given type once the subtotal reaches MinSubtotal. Rules are evaluated in
// order; the first matching rule wins.
type DiscountRule struct {
	OrderType   domain.OrderType
	MinSubtotal int64
	Flat        int64
	Percent     int64
}

type Rules struct {
	Discounts []DiscountRule
}

// Compute prices an order from its live inputs: sum of quantity times unit
// price over the lines, plus every applicable selected add-on (once per
// order), plus every selected charge whose type rule matches the order type,
// minus the first matching discount. The discount is capped at the subtotal
// so the total never goes negative; the returned flag reports that the cap
// fired, which callers surface as a warning rather than an error.
func Compute(lines []Line, addOns []domain.AddOnItem, charges []domain.Charge, t domain.OrderType, rules Rules) (Quote, bool) {
	var subtotal int64
	for _, l := range lines {
		subtotal += int64(l.Quantity) * l.UnitPrice
	}
	for _, a := range addOns {
		if a.Applicable {
			subtotal += a.Price
		}
	}
	for _, c := range charges {
		if c.Applies(t) {
			subtotal += c.Amount
		}
	}

	var discount int64
	for _, r := range rules.Discounts {
		if r.OrderType != t || subtotal < r.MinSubtotal {
			continue
		}
		discount = r.Flat + subtotal*r.Percent/100
		break
	}
	clamped := discount > subtotal
	if clamped {
		discount = subtotal
	}

	return Quote{Subtotal: subtotal, Discount: discount, Total: subtotal - discount}, clamped
}
