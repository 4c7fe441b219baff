package gateway

import (
	"errors"
	"fmt"
)

// ValidationError is reported synchronously, before any processing delay.
// The session stays at the payment step and nothing was charged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DeclineError is a simulated gateway refusal, reported after the processing
// delay. Reason is user-displayable.
type DeclineError struct {
	Reason string
}

func (e *DeclineError) Error() string {
	return fmt.Sprintf("payment declined: %s", e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsDeclined(err error) bool {
	var de *DeclineError
	return errors.As(err, &de)
}
