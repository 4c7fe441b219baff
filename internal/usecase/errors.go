package usecase

import "errors"

var (
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrPaymentTimeout  = errors.New("payment timed out")
)
