package checkout

import (
	"sync"
	"time"
)

type phase int

const (
	phaseSelect phase = iota
	phaseSummary
	phasePayment
	phaseConfirmed
)

type mark struct {
	ph  phase
	pos int
}

// Session is the mutable state of one in-progress booking flow. All
// transitions are serialized on an internal mutex; a session is owned by a
// single checkout and discarded once confirmed or cancelled.
type Session struct {
	ID        string
	UserID    string
	Flow      Flow
	Context   TripContext
	CreatedAt time.Time

	mu      sync.Mutex
	ph      phase
	pos     int
	trail   []mark
	cart    []LineItem
	skipped []Step
	pending bool
	attempt uint64
	txID    string
}

// NewSession starts a flow at its first non-elided selection step. Leading
// steps elided by the trip context are recorded as skipped up front.
func NewSession(id, userID string, flow Flow, tc TripContext) *Session {
	s := &Session{
		ID:        id,
		UserID:    userID,
		Flow:      flow,
		Context:   tc,
		CreatedAt: time.Now(),
	}
	ph, pos, elided := s.resolve(0)
	s.ph, s.pos = ph, pos
	for _, st := range elided {
		s.recordSkip(st)
	}
	return s
}

// resolve walks the step table from index start and returns the next state,
// along with any steps the context elides on the way. It does not mutate the
// session.
func (s *Session) resolve(start int) (phase, int, []Step) {
	var elided []Step
	for i := start; i < len(s.Flow.Steps); i++ {
		def := s.Flow.Steps[i]
		if s.isSkipped(def.ID) {
			// elision is decided once; a previously skipped step is
			// never re-entered
			continue
		}
		if def.SkipWhen != nil && def.SkipWhen(s.Context) {
			elided = append(elided, def.ID)
			continue
		}
		return phaseSelect, i, elided
	}
	if s.Flow.HasSummary {
		return phaseSummary, 0, elided
	}
	return phasePayment, 0, elided
}

func (s *Session) isSkipped(st Step) bool {
	for _, sk := range s.skipped {
		if sk == st {
			return true
		}
	}
	return false
}

// recordSkip keeps skipped a set: one entry per step id no matter how the
// step was bypassed.
func (s *Session) recordSkip(st Step) {
	if !s.isSkipped(st) {
		s.skipped = append(s.skipped, st)
	}
}

func (s *Session) step() Step {
	switch s.ph {
	case phaseSummary:
		return StepSummary
	case phasePayment:
		return StepPayment
	case phaseConfirmed:
		return StepConfirmed
	default:
		return s.Flow.Steps[s.pos].ID
	}
}

func (s *Session) guard() error {
	if s.ph == phaseConfirmed {
		return ErrCompleted
	}
	if s.pending {
		return ErrPaymentPending
	}
	return nil
}

// Step returns the state the session is currently in.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step()
}

// Cart returns the selected items in selection order.
func (s *Session) Cart() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]LineItem, len(s.cart))
	copy(items, s.cart)
	return items
}

// Skipped returns the steps bypassed so far, by user skip or by elision.
func (s *Session) Skipped() []Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	steps := make([]Step, len(s.skipped))
	copy(steps, s.skipped)
	return steps
}

// TransactionID is the gateway reference of a confirmed session, empty until
// then.
func (s *Session) TransactionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txID
}

// PaymentPending reports whether a payment attempt is in flight.
func (s *Session) PaymentPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Confirmed reports whether the session reached its terminal state.
func (s *Session) Confirmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ph == phaseConfirmed
}

// Toggle adds the item to the cart, or removes it if an item with the same id
// is already selected. Valid only while in a selection step.
func (s *Session) Toggle(item LineItem) (added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return false, err
	}
	if s.ph != phaseSelect {
		return false, ErrNotInSelection
	}
	for i, it := range s.cart {
		if it.ID == item.ID {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return false, nil
		}
	}
	s.cart = append(s.cart, item)
	return true, nil
}

// Advance moves to the next selection step, or to the summary/payment state
// past the last one. Steps elided by the trip context on the way are recorded
// as skipped.
func (s *Session) Advance() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return s.step(), err
	}
	if s.ph != phaseSelect {
		return s.step(), ErrNotInSelection
	}
	return s.advance()
}

// Skip records the current step as explicitly bypassed, then advances. The
// cart is untouched.
func (s *Session) Skip() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return s.step(), err
	}
	if s.ph != phaseSelect {
		return s.step(), ErrNotInSelection
	}
	s.recordSkip(s.Flow.Steps[s.pos].ID)
	return s.advance()
}

func (s *Session) advance() (Step, error) {
	ph, pos, elided := s.resolve(s.pos + 1)
	if ph == phasePayment && s.Flow.RequireItems && len(s.cart) == 0 {
		return s.step(), ErrEmptyCart
	}
	s.trail = append(s.trail, mark{s.ph, s.pos})
	for _, st := range elided {
		s.recordSkip(st)
	}
	s.ph, s.pos = ph, pos
	return s.step(), nil
}

// GoToPayment enters the payment state from the summary, or from the last
// selection step in flows without one. Flows gated on a non-empty cart refuse
// the transition with ErrEmptyCart.
func (s *Session) GoToPayment() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return s.step(), err
	}
	switch s.ph {
	case phaseSummary:
		if s.Flow.RequireItems && len(s.cart) == 0 {
			return s.step(), ErrEmptyCart
		}
		s.trail = append(s.trail, mark{s.ph, s.pos})
		s.ph = phasePayment
		return s.step(), nil
	case phaseSelect:
		if s.Flow.HasSummary {
			return s.step(), ErrNotInSelection
		}
		ph, _, _ := s.resolve(s.pos + 1)
		if ph != phasePayment {
			return s.step(), ErrNotInSelection
		}
		return s.advance()
	default:
		return s.step(), ErrNotInSelection
	}
}

// Back returns to the previously visited state. Never destructive to cart
// contents; elided steps are not revisited.
func (s *Session) Back() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return s.step(), err
	}
	if len(s.trail) == 0 {
		return s.step(), ErrAtFirstStep
	}
	prev := s.trail[len(s.trail)-1]
	s.trail = s.trail[:len(s.trail)-1]
	s.ph, s.pos = prev.ph, prev.pos
	return s.step(), nil
}

// BeginPayment marks a payment attempt in flight and returns its token.
// While an attempt is pending every other transition is rejected.
func (s *Session) BeginPayment() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ph == phaseConfirmed {
		return 0, ErrCompleted
	}
	if s.ph != phasePayment {
		return 0, ErrNotAtPayment
	}
	if s.pending {
		return 0, ErrPaymentPending
	}
	s.attempt++
	s.pending = true
	return s.attempt, nil
}

// Succeed confirms the session for the given attempt. A stale token (the
// attempt was cancelled or superseded) is rejected so the late resolution can
// be discarded by the caller.
func (s *Session) Succeed(attempt uint64, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ph == phaseConfirmed {
		return ErrCompleted
	}
	if !s.pending || attempt != s.attempt {
		return ErrStaleAttempt
	}
	s.pending = false
	s.ph = phaseConfirmed
	s.txID = transactionID
	return nil
}

// Fail resolves the attempt as declined or errored. The session stays at the
// payment step with the cart untouched, ready for a retry.
func (s *Session) Fail(attempt uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ph == phaseConfirmed {
		return ErrCompleted
	}
	if !s.pending || attempt != s.attempt {
		return ErrStaleAttempt
	}
	s.pending = false
	return nil
}

// CancelPayment abandons the payment step and returns to the pre-payment
// state. Any in-flight attempt token becomes stale, so a resolution racing
// the cancel is discarded.
func (s *Session) CancelPayment() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ph == phaseConfirmed {
		return s.step(), ErrCompleted
	}
	if s.ph != phasePayment {
		return s.step(), ErrNotAtPayment
	}
	s.pending = false
	s.attempt++
	if len(s.trail) > 0 {
		prev := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		s.ph, s.pos = prev.ph, prev.pos
	}
	return s.step(), nil
}
