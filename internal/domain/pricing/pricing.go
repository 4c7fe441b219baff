package pricing

import (
	"github.com/pawan0320/ecovoyage-backend/internal/domain/checkout"
)

// Schedule is the fee configuration of one checkout flow. All amounts are in
// the flow's base currency unit.
type Schedule struct {
	Currency          string  `json:"currency"`
	TaxRate           float64 `json:"tax_rate"`
	EcoFee            float64 `json:"eco_fee"`
	DiscountThreshold float64 `json:"discount_threshold"`
	DiscountAmount    float64 `json:"discount_amount"`
}

// Breakdown is the derived price of a cart. It is recomputed on every cart
// mutation and never stored. Clamped marks a schedule that drove the total
// negative; the caller must log it and never show the pre-clamp value.
type Breakdown struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	EcoFee   float64 `json:"eco_fee"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
	Clamped  bool    `json:"-"`
}

// Compute aggregates already-priced items into a breakdown. Pure function of
// (items, schedule); item order does not affect the result.
func Compute(items []checkout.LineItem, s Schedule) Breakdown {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Price
	}

	tax := subtotal * s.TaxRate

	var discount float64
	if s.DiscountThreshold > 0 && subtotal > s.DiscountThreshold {
		discount = s.DiscountAmount
	}

	b := Breakdown{
		Subtotal: subtotal,
		Tax:      tax,
		EcoFee:   s.EcoFee,
		Discount: discount,
		Total:    subtotal + tax + s.EcoFee - discount,
		Currency: s.Currency,
	}
	if b.Total < 0 {
		b.Total = 0
		b.Clamped = true
	}
	return b
}
