package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pos-engine/internal/domain"
)

func TestCompute(t *testing.T) {
	dineInCharge := domain.Charge{ID: 1, Name: "service", Amount: 20, AppliesTo: "dine_in"}
	deliveryCharge := domain.Charge{ID: 2, Name: "delivery", Amount: 50, AppliesTo: "delivery,dine_out"}

	tests := []struct {
		name      string
		lines     []Line
		addOns    []domain.AddOnItem
		charges   []domain.Charge
		orderType domain.OrderType
		rules     Rules
		want      Quote
		clamped   bool
	}{
		{
			name:      "dine-in order with matching charge",
			lines:     []Line{{ProductID: 3, Quantity: 2, UnitPrice: 100}},
			charges:   []domain.Charge{dineInCharge},
			orderType: domain.DineIn,
			want:      Quote{Subtotal: 220, Discount: 0, Total: 220},
		},
		{
			name:      "one unit left",
			lines:     []Line{{ProductID: 3, Quantity: 1, UnitPrice: 100}},
			charges:   []domain.Charge{dineInCharge},
			orderType: domain.DineIn,
			want:      Quote{Subtotal: 120, Discount: 0, Total: 120},
		},
		{
			name:      "charge only after last line removed",
			charges:   []domain.Charge{dineInCharge},
			orderType: domain.DineIn,
			want:      Quote{Subtotal: 20, Discount: 0, Total: 20},
		},
		{
			name:      "empty order",
			orderType: domain.DineIn,
			want:      Quote{},
		},
		{
			name:  "non-matching charge contributes nothing",
			lines: []Line{{ProductID: 1, Quantity: 1, UnitPrice: 100}},
			charges: []domain.Charge{
				deliveryCharge,
			},
			orderType: domain.DineIn,
			want:      Quote{Subtotal: 100, Discount: 0, Total: 100},
		},
		{
			name:  "non-applicable add-on contributes nothing even when selected",
			lines: []Line{{ProductID: 1, Quantity: 1, UnitPrice: 100}},
			addOns: []domain.AddOnItem{
				{ID: 1, Price: 30, Applicable: true},
				{ID: 2, Price: 999, Applicable: false},
			},
			orderType: domain.DineIn,
			want:      Quote{Subtotal: 130, Discount: 0, Total: 130},
		},
		{
			name:      "add-on priced once per order regardless of line quantities",
			lines:     []Line{{ProductID: 1, Quantity: 5, UnitPrice: 10}},
			addOns:    []domain.AddOnItem{{ID: 1, Price: 7, Applicable: true}},
			orderType: domain.Delivery,
			want:      Quote{Subtotal: 57, Discount: 0, Total: 57},
		},
		{
			name:      "flat discount above threshold",
			lines:     []Line{{ProductID: 1, Quantity: 2, UnitPrice: 300}},
			charges:   []domain.Charge{deliveryCharge},
			orderType: domain.Delivery,
			rules: Rules{Discounts: []DiscountRule{
				{OrderType: domain.Delivery, MinSubtotal: 500, Flat: 50},
			}},
			want: Quote{Subtotal: 650, Discount: 50, Total: 600},
		},
		{
			name:      "discount rule for other order type does not fire",
			lines:     []Line{{ProductID: 1, Quantity: 2, UnitPrice: 300}},
			orderType: domain.DineIn,
			rules: Rules{Discounts: []DiscountRule{
				{OrderType: domain.Delivery, MinSubtotal: 500, Flat: 50},
			}},
			want: Quote{Subtotal: 600, Discount: 0, Total: 600},
		},
		{
			name:      "below threshold keeps full price",
			lines:     []Line{{ProductID: 1, Quantity: 1, UnitPrice: 100}},
			orderType: domain.Delivery,
			rules: Rules{Discounts: []DiscountRule{
				{OrderType: domain.Delivery, MinSubtotal: 500, Flat: 50},
			}},
			want: Quote{Subtotal: 100, Discount: 0, Total: 100},
		},
		{
			name:      "percent discount",
			lines:     []Line{{ProductID: 1, Quantity: 1, UnitPrice: 1000}},
			orderType: domain.DineOut,
			rules: Rules{Discounts: []DiscountRule{
				{OrderType: domain.DineOut, MinSubtotal: 0, Percent: 10},
			}},
			want: Quote{Subtotal: 1000, Discount: 100, Total: 900},
		},
		{
			name:      "first matching rule wins",
			lines:     []Line{{ProductID: 1, Quantity: 1, UnitPrice: 1000}},
			orderType: domain.Delivery,
			rules: Rules{Discounts: []DiscountRule{
				{OrderType: domain.Delivery, MinSubtotal: 0, Flat: 10},
				{OrderType: domain.Delivery, MinSubtotal: 0, Flat: 999},
			}},
			want: Quote{Subtotal: 1000, Discount: 10, Total: 990},
		},
		{
			name:      "discount never exceeds subtotal",
			lines:     []Line{{ProductID: 1, Quantity: 1, UnitPrice: 40}},
			orderType: domain.Delivery,
			rules: Rules{Discounts: []DiscountRule{
				{OrderType: domain.Delivery, MinSubtotal: 0, Flat: 100},
			}},
			want:    Quote{Subtotal: 40, Discount: 40, Total: 0},
			clamped: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := Compute(tt.lines, tt.addOns, tt.charges, tt.orderType, tt.rules)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.clamped, clamped)
			assert.GreaterOrEqual(t, got.Total, int64(0))
		})
	}
}

func TestChargeApplies(t *testing.T) {
	c := domain.Charge{AppliesTo: "delivery, dine_out"}
	assert.True(t, c.Applies(domain.Delivery))
	assert.True(t, c.Applies(domain.DineOut))
	assert.False(t, c.Applies(domain.DineIn))

	empty := domain.Charge{}
	assert.False(t, empty.Applies(domain.DineIn))
}
