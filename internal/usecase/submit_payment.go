package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pawan0320/ecovoyage-backend/internal/domain/checkout"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/event"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/outbox"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/pricing"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/trip"
	"github.com/pawan0320/ecovoyage-backend/internal/gateway"
	"github.com/pawan0320/ecovoyage-backend/internal/session"
)

const producerName = "booking-api"

// OutboxWriter is the slice of the outbox repository this use case needs.
type OutboxWriter interface {
	Create(ctx context.Context, e *outbox.Event) error
}

// Transactor mirrors postgres.Transactor so tests can run the function
// without a database.
type Transactor interface {
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error
}

// SubmitPayment drives one payment attempt: charge through the gateway,
// then persist the confirmation record and its outbox event in one
// transaction. This is the only place a checkout session produces an
// external side effect.
type SubmitPayment struct {
	sessions  *session.Store
	gateway   gateway.Gateway
	tx        Transactor
	trips     trip.Repository
	outbox    OutboxWriter
	schedules ScheduleSet
	timeout   time.Duration
}

func NewSubmitPayment(
	sessions *session.Store,
	gw gateway.Gateway,
	tx Transactor,
	trips trip.Repository,
	ob OutboxWriter,
	schedules ScheduleSet,
	timeout time.Duration,
) *SubmitPayment {
	return &SubmitPayment{
		sessions:  sessions,
		gateway:   gw,
		tx:        tx,
		trips:     trips,
		outbox:    ob,
		schedules: schedules,
		timeout:   timeout,
	}
}

type SubmitPaymentParams struct {
	SessionID  string         `json:"-"`
	Method     gateway.Method `json:"method"`
	CardNumber string         `json:"card_number,omitempty"`
	CardHolder string         `json:"card_holder,omitempty"`
	UPIID      string         `json:"upi_id,omitempty"`
}

type PaymentReceipt struct {
	TripID        string            `json:"trip_id"`
	TransactionID string            `json:"transaction_id"`
	Status        trip.Status       `json:"status"`
	Breakdown     pricing.Breakdown `json:"breakdown"`
}

type bookingConfirmedPayload struct {
	TripID        string  `json:"trip_id"`
	SessionID     string  `json:"session_id"`
	UserID        string  `json:"user_id,omitempty"`
	Flow          string  `json:"flow"`
	Destination   string  `json:"destination"`
	TravelDate    string  `json:"travel_date,omitempty"`
	TotalCost     float64 `json:"total_cost"`
	Currency      string  `json:"currency"`
	TransactionID string  `json:"transaction_id"`
}

func (uc *SubmitPayment) Execute(ctx context.Context, params SubmitPaymentParams) (*PaymentReceipt, error) {
	sess, ok := uc.sessions.Get(params.SessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	attempt, err := sess.BeginPayment()
	if err != nil {
		return nil, err
	}

	sched := uc.schedules.For(sess.Flow.ID)
	breakdown := pricing.Compute(sess.Cart(), sched)
	if breakdown.Clamped {
		// never show a negative price; this is a schedule misconfiguration
		slog.Error("fee schedule drove total negative, clamped to zero",
			"flow", sess.Flow.ID, "session_id", sess.ID)
	}

	chargeCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	result, err := uc.gateway.Charge(chargeCtx, gateway.ChargeRequest{
		Method:     params.Method,
		CardNumber: params.CardNumber,
		CardHolder: params.CardHolder,
		UPIID:      params.UPIID,
		Amount:     breakdown.Total,
		Currency:   sched.Currency,
		Reference:  sess.ID,
	})
	if err != nil {
		if failErr := sess.Fail(attempt); errors.Is(failErr, checkout.ErrStaleAttempt) {
			// the user cancelled while the charge was in flight;
			// discard this resolution
			return nil, checkout.ErrStaleAttempt
		}
		switch {
		case gateway.IsValidation(err):
			paymentValidationErrors.Inc()
		case gateway.IsDeclined(err):
			paymentsDeclined.Inc()
		case errors.Is(err, context.DeadlineExceeded):
			paymentTimeouts.Inc()
			return nil, ErrPaymentTimeout
		}
		return nil, err
	}

	// claim the attempt before persisting so a cancel that raced the
	// resolution wins and the result is dropped
	if err := sess.Succeed(attempt, result.TransactionID); err != nil {
		return nil, err
	}

	rec := &trip.ConfirmationRecord{
		ID:            uuid.New().String(),
		UserID:        sess.UserID,
		Flow:          string(sess.Flow.ID),
		Destination:   subjectOf(sess),
		TravelDate:    sess.Context.TravelDate,
		TotalCost:     breakdown.Total,
		Currency:      breakdown.Currency,
		TransactionID: result.TransactionID,
		Status:        trip.StatusUpcoming,
		CreatedAt:     time.Now(),
	}

	payload, err := json.Marshal(bookingConfirmedPayload{
		TripID:        rec.ID,
		SessionID:     sess.ID,
		UserID:        rec.UserID,
		Flow:          rec.Flow,
		Destination:   rec.Destination,
		TravelDate:    rec.TravelDate,
		TotalCost:     rec.TotalCost,
		Currency:      rec.Currency,
		TransactionID: rec.TransactionID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal confirmation payload: %w", err)
	}

	outboxEvent := &outbox.Event{
		ID:            uuid.New().String(),
		EventType:     event.TypeBookingConfirmed,
		Payload:       payload,
		Status:        outbox.StatusNew,
		CorrelationID: rec.ID,
		Producer:      producerName,
		CreatedAt:     time.Now(),
	}

	err = uc.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.trips.Append(txCtx, rec); err != nil {
			return err
		}
		return uc.outbox.Create(txCtx, outboxEvent)
	})
	if err != nil {
		return nil, fmt.Errorf("persist confirmation: %w", err)
	}

	// terminal state reached and the record is durable; the session is done
	uc.sessions.Delete(sess.ID)
	bookingsConfirmed.Inc()

	return &PaymentReceipt{
		TripID:        rec.ID,
		TransactionID: rec.TransactionID,
		Status:        rec.Status,
		Breakdown:     breakdown,
	}, nil
}

// subjectOf derives the history record's subject line from the session.
func subjectOf(sess *checkout.Session) string {
	if sess.Context.Destination != "" {
		return sess.Context.Destination
	}
	if sess.Flow.ID == checkout.FlowFood {
		return "Food Order"
	}
	return "Trip"
}
