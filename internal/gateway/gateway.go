package gateway

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Method string

const (
	MethodCard       Method = "card"
	MethodUPI        Method = "upi"
	MethodNetBanking Method = "netbanking"
)

type ChargeRequest struct {
	Method     Method
	CardNumber string
	CardHolder string
	UPIID      string
	Amount     float64
	Currency   string
	Reference  string // checkout session id
}

type ChargeResult struct {
	TransactionID string
	ProcessedAt   time.Time
}

// Gateway confirms payments. The production integration and the simulator
// share this contract, so the checkout flow never changes when the real
// gateway is substituted.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// IDSource issues transaction identifiers. Injected so tests can supply
// deterministic values.
type IDSource interface {
	TransactionID() string
}

type UUIDSource struct{}

func (UUIDSource) TransactionID() string {
	return "TXN-" + uuid.New().String()
}

// OutcomeSource decides whether a well-formed charge is approved.
type OutcomeSource interface {
	Approve() (ok bool, reason string)
}

type AlwaysApprove struct{}

func (AlwaysApprove) Approve() (bool, string) { return true, "" }

var declineReasons = []string{
	"insufficient funds",
	"card expired",
	"issuer unavailable",
	"suspected fraud",
}

// RandomOutcome declines roughly DeclineRate percent of charges.
type RandomOutcome struct {
	DeclineRate int
}

func (o RandomOutcome) Approve() (bool, string) {
	n := rand.Intn(100)
	if n < o.DeclineRate {
		return false, declineReasons[n%len(declineReasons)]
	}
	return true, ""
}

// Simulator is the payment stub: it validates the request synchronously,
// waits out a configurable processing delay, then resolves via its outcome
// source. The caller's context deadline doubles as the payment timeout, and
// cancelling the context abandons the wait.
type Simulator struct {
	delay   time.Duration
	ids     IDSource
	outcome OutcomeSource
}

func NewSimulator(delay time.Duration, ids IDSource, outcome OutcomeSource) *Simulator {
	if ids == nil {
		ids = UUIDSource{}
	}
	if outcome == nil {
		outcome = AlwaysApprove{}
	}
	return &Simulator{delay: delay, ids: ids, outcome: outcome}
}

func (s *Simulator) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	if ok, reason := s.outcome.Approve(); !ok {
		return nil, &DeclineError{Reason: reason}
	}

	return &ChargeResult{
		TransactionID: s.ids.TransactionID(),
		ProcessedAt:   time.Now(),
	}, nil
}

func validate(req ChargeRequest) error {
	if req.Amount < 0 {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	switch req.Method {
	case MethodCard:
		// digits are counted after normalization, spaces and dashes in
		// the number are fine
		if countDigits(req.CardNumber) < 16 {
			return &ValidationError{Field: "card_number", Reason: "must carry at least 16 digits"}
		}
	case MethodUPI:
		if !strings.Contains(req.UPIID, "@") {
			return &ValidationError{Field: "upi_id", Reason: "must include a handle"}
		}
	case MethodNetBanking:
	default:
		return &ValidationError{Field: "method", Reason: "unsupported payment method"}
	}
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
