package pricing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawan0320/ecovoyage-backend/internal/domain/checkout"
)

var tripSchedule = Schedule{
	Currency:          "INR",
	TaxRate:           0.18,
	EcoFee:            50,
	DiscountThreshold: 5000,
	DiscountAmount:    500,
}

func items(prices ...float64) []checkout.LineItem {
	out := make([]checkout.LineItem, 0, len(prices))
	for i, p := range prices {
		out = append(out, checkout.LineItem{ID: string(rune('a' + i)), Price: p})
	}
	return out
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		items    []checkout.LineItem
		schedule Schedule
		want     Breakdown
	}{
		{
			name:     "below discount threshold",
			items:    items(340, 220),
			schedule: tripSchedule,
			want: Breakdown{
				Subtotal: 560,
				Tax:      100.8,
				EcoFee:   50,
				Discount: 0,
				Total:    710.8,
				Currency: "INR",
			},
		},
		{
			name:     "discount applies above threshold",
			items:    items(4000, 2000),
			schedule: tripSchedule,
			want: Breakdown{
				Subtotal: 6000,
				Tax:      1080,
				EcoFee:   50,
				Discount: 500,
				Total:    6630,
				Currency: "INR",
			},
		},
		{
			name:     "subtotal exactly at threshold gets no discount",
			items:    items(5000),
			schedule: tripSchedule,
			want: Breakdown{
				Subtotal: 5000,
				Tax:      900,
				EcoFee:   50,
				Discount: 0,
				Total:    5950,
				Currency: "INR",
			},
		},
		{
			name:     "empty cart still carries the eco fee",
			items:    nil,
			schedule: tripSchedule,
			want: Breakdown{
				Subtotal: 0,
				Tax:      0,
				EcoFee:   50,
				Discount: 0,
				Total:    50,
				Currency: "INR",
			},
		},
		{
			name:     "fee free schedule",
			items:    items(220, 120),
			schedule: Schedule{Currency: "INR"},
			want: Breakdown{
				Subtotal: 340,
				Total:    340,
				Currency: "INR",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.items, tt.schedule)
			assert.InDelta(t, tt.want.Subtotal, got.Subtotal, 0.001)
			assert.InDelta(t, tt.want.Tax, got.Tax, 0.001)
			assert.InDelta(t, tt.want.EcoFee, got.EcoFee, 0.001)
			assert.InDelta(t, tt.want.Discount, got.Discount, 0.001)
			assert.InDelta(t, tt.want.Total, got.Total, 0.001)
			assert.Equal(t, tt.want.Currency, got.Currency)
			assert.False(t, got.Clamped)
		})
	}
}

func TestComputeOrderIndependent(t *testing.T) {
	base := items(4999, 2200, 450, 120)
	want := Compute(base, tripSchedule)

	shuffled := make([]checkout.LineItem, len(base))
	copy(shuffled, base)
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, Compute(shuffled, tripSchedule))
	}
}

func TestComputeClampsNegativeTotal(t *testing.T) {
	// a discount larger than the cart must not surface a negative price
	s := Schedule{Currency: "INR", DiscountThreshold: 50, DiscountAmount: 1000}
	got := Compute(items(60), s)

	assert.Equal(t, 0.0, got.Total)
	assert.True(t, got.Clamped)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "₹710.80", Format(710.8, "INR"))
	assert.Equal(t, "$19.99", Format(19.99, "USD"))
	assert.Equal(t, "AUD12.00", Format(12, "AUD"))
}
