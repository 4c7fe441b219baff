package checkout

import "errors"

var (
	ErrUnknownFlow    = errors.New("unknown checkout flow")
	ErrNotInSelection = errors.New("not in a selection step")
	ErrNotAtPayment   = errors.New("not at the payment step")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrAtFirstStep    = errors.New("already at the first step")
	ErrPaymentPending = errors.New("a payment attempt is in flight")
	ErrStaleAttempt   = errors.New("payment attempt is no longer current")
	ErrCompleted      = errors.New("checkout already confirmed")
)
