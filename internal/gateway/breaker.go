package gateway

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Breaker shields the checkout flow from a misbehaving gateway. Validation
// failures and declines are business outcomes and do not count against the
// breaker; only infrastructure errors trip it.
type Breaker struct {
	next Gateway
	cb   *gobreaker.CircuitBreaker[*ChargeResult]
}

func NewBreaker(next Gateway) *Breaker {
	settings := gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || IsValidation(err) || IsDeclined(err)
		},
	}
	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[*ChargeResult](settings),
	}
}

func (b *Breaker) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	return b.cb.Execute(func() (*ChargeResult, error) {
		return b.next.Charge(ctx, req)
	})
}
