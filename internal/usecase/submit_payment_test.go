package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawan0320/ecovoyage-backend/internal/domain/checkout"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/event"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/outbox"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/pricing"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/trip"
	"github.com/pawan0320/ecovoyage-backend/internal/gateway"
	"github.com/pawan0320/ecovoyage-backend/internal/infrastructure/memory"
	"github.com/pawan0320/ecovoyage-backend/internal/session"
)

type mockGateway struct {
	result *gateway.ChargeResult
	err    error
	calls  []gateway.ChargeRequest
}

func (m *mockGateway) Charge(_ context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	m.calls = append(m.calls, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockOutbox struct {
	events []*outbox.Event
	err    error
}

func (m *mockOutbox) Create(_ context.Context, e *outbox.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

// passthroughTx runs the function without a database.
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	return f(ctx)
}

func testSchedules() ScheduleSet {
	return ScheduleSet{
		checkout.FlowTrip: {
			Currency:          "INR",
			TaxRate:           0.18,
			EcoFee:            50,
			DiscountThreshold: 5000,
			DiscountAmount:    500,
		},
		checkout.FlowFood: {Currency: "INR"},
	}
}

// sessionAtPayment builds a food-flow session parked at the payment step.
func sessionAtPayment(t *testing.T, items ...checkout.LineItem) *checkout.Session {
	t.Helper()
	flows := checkout.Registry()
	sess := checkout.NewSession("sess-1", "user-1", flows[checkout.FlowFood], checkout.TripContext{})
	for _, it := range items {
		_, err := sess.Toggle(it)
		require.NoError(t, err)
	}
	_, err := sess.GoToPayment()
	require.NoError(t, err)
	return sess
}

func TestSubmitPaymentSuccess(t *testing.T) {
	sess := sessionAtPayment(t, checkout.LineItem{ID: "fd-thali", Name: "Veg Thali", Price: 220})
	sessions := session.NewStore()
	sessions.Put(sess)

	trips := memory.NewTripRepository()
	ob := &mockOutbox{}
	gw := &mockGateway{result: &gateway.ChargeResult{TransactionID: "TXN-1", ProcessedAt: time.Now()}}

	uc := NewSubmitPayment(sessions, gw, passthroughTx{}, trips, ob, testSchedules(), time.Second)

	receipt, err := uc.Execute(context.Background(), SubmitPaymentParams{
		SessionID: "sess-1",
		Method:    gateway.MethodUPI,
		UPIID:     "traveller@bank",
	})
	require.NoError(t, err)
	assert.Equal(t, "TXN-1", receipt.TransactionID)
	assert.Equal(t, trip.StatusUpcoming, receipt.Status)
	assert.InDelta(t, 220, receipt.Breakdown.Total, 0.001)

	// the charge carried the computed total
	require.Len(t, gw.calls, 1)
	assert.InDelta(t, 220, gw.calls[0].Amount, 0.001)
	assert.Equal(t, "sess-1", gw.calls[0].Reference)

	// exactly one history record, confirmed and upcoming
	records, err := trips.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, receipt.TripID, records[0].ID)
	assert.Equal(t, "user-1", records[0].UserID)
	assert.Equal(t, "Food Order", records[0].Destination)
	assert.Equal(t, "TXN-1", records[0].TransactionID)
	assert.Equal(t, trip.StatusUpcoming, records[0].Status)

	// one confirmation event, correlated to the trip
	require.Len(t, ob.events, 1)
	assert.Equal(t, event.TypeBookingConfirmed, ob.events[0].EventType)
	assert.Equal(t, receipt.TripID, ob.events[0].CorrelationID)
	assert.Equal(t, outbox.StatusNew, ob.events[0].Status)

	// the session is finished and released
	_, ok := sessions.Get("sess-1")
	assert.False(t, ok)
}

func TestSubmitPaymentUsesDestinationAsSubject(t *testing.T) {
	flows := checkout.Registry()
	sess := checkout.NewSession("sess-1", "user-1", flows[checkout.FlowTrip], checkout.TripContext{Destination: "Goa", DurationDays: 3})
	_, err := sess.Toggle(checkout.LineItem{ID: "tr-flight", Price: 4999})
	require.NoError(t, err)
	for sess.Step() != checkout.StepSummary {
		_, err := sess.Advance()
		require.NoError(t, err)
	}
	_, err = sess.GoToPayment()
	require.NoError(t, err)

	sessions := session.NewStore()
	sessions.Put(sess)
	trips := memory.NewTripRepository()
	gw := &mockGateway{result: &gateway.ChargeResult{TransactionID: "TXN-1"}}

	uc := NewSubmitPayment(sessions, gw, passthroughTx{}, trips, &mockOutbox{}, testSchedules(), time.Second)
	receipt, err := uc.Execute(context.Background(), SubmitPaymentParams{SessionID: "sess-1", Method: gateway.MethodNetBanking})
	require.NoError(t, err)

	rec, err := trips.GetByID(context.Background(), receipt.TripID)
	require.NoError(t, err)
	assert.Equal(t, "Goa", rec.Destination)
	// trip schedule: 4999 + 18% tax + eco fee 50
	assert.InDelta(t, 4999+4999*0.18+50, rec.TotalCost, 0.001)
}

func TestSubmitPaymentSessionNotFound(t *testing.T) {
	uc := NewSubmitPayment(session.NewStore(), &mockGateway{}, passthroughTx{}, memory.NewTripRepository(), &mockOutbox{}, testSchedules(), time.Second)

	_, err := uc.Execute(context.Background(), SubmitPaymentParams{SessionID: "missing"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitPaymentDeclineLeavesSessionRetryable(t *testing.T) {
	sess := sessionAtPayment(t, checkout.LineItem{ID: "fd-thali", Price: 220})
	sessions := session.NewStore()
	sessions.Put(sess)
	trips := memory.NewTripRepository()
	ob := &mockOutbox{}
	gw := &mockGateway{err: &gateway.DeclineError{Reason: "insufficient funds"}}

	uc := NewSubmitPayment(sessions, gw, passthroughTx{}, trips, ob, testSchedules(), time.Second)

	_, err := uc.Execute(context.Background(), SubmitPaymentParams{SessionID: "sess-1", Method: gateway.MethodNetBanking})
	require.Error(t, err)
	assert.True(t, gateway.IsDeclined(err))

	// nothing persisted, session still parked at payment for a retry
	records, _ := trips.List(context.Background(), 10)
	assert.Empty(t, records)
	assert.Empty(t, ob.events)

	got, ok := sessions.Get("sess-1")
	require.True(t, ok)
	assert.Equal(t, checkout.StepPayment, got.Step())
	assert.False(t, got.PaymentPending())
}

func TestSubmitPaymentTimeout(t *testing.T) {
	sess := sessionAtPayment(t, checkout.LineItem{ID: "fd-thali", Price: 220})
	sessions := session.NewStore()
	sessions.Put(sess)
	gw := &mockGateway{err: context.DeadlineExceeded}

	uc := NewSubmitPayment(sessions, gw, passthroughTx{}, memory.NewTripRepository(), &mockOutbox{}, testSchedules(), time.Second)

	_, err := uc.Execute(context.Background(), SubmitPaymentParams{SessionID: "sess-1", Method: gateway.MethodNetBanking})
	assert.ErrorIs(t, err, ErrPaymentTimeout)

	got, ok := sessions.Get("sess-1")
	require.True(t, ok)
	assert.False(t, got.PaymentPending())
}

func TestSubmitPaymentRejectsConcurrentAttempt(t *testing.T) {
	sess := sessionAtPayment(t, checkout.LineItem{ID: "fd-thali", Price: 220})
	_, err := sess.BeginPayment()
	require.NoError(t, err)

	sessions := session.NewStore()
	sessions.Put(sess)

	uc := NewSubmitPayment(sessions, &mockGateway{}, passthroughTx{}, memory.NewTripRepository(), &mockOutbox{}, testSchedules(), time.Second)

	_, err = uc.Execute(context.Background(), SubmitPaymentParams{SessionID: "sess-1", Method: gateway.MethodNetBanking})
	assert.ErrorIs(t, err, checkout.ErrPaymentPending)
}

func TestSubmitPaymentPersistFailure(t *testing.T) {
	sess := sessionAtPayment(t, checkout.LineItem{ID: "fd-thali", Price: 220})
	sessions := session.NewStore()
	sessions.Put(sess)
	ob := &mockOutbox{err: errors.New("db down")}
	gw := &mockGateway{result: &gateway.ChargeResult{TransactionID: "TXN-1"}}

	uc := NewSubmitPayment(sessions, gw, passthroughTx{}, memory.NewTripRepository(), ob, testSchedules(), time.Second)

	_, err := uc.Execute(context.Background(), SubmitPaymentParams{SessionID: "sess-1", Method: gateway.MethodNetBanking})
	assert.Error(t, err)
}

func TestSubmitPaymentBreakdownMatchesCompute(t *testing.T) {
	items := []checkout.LineItem{{ID: "a", Price: 220}, {ID: "b", Price: 320}}
	sess := sessionAtPayment(t, items...)
	sessions := session.NewStore()
	sessions.Put(sess)
	gw := &mockGateway{result: &gateway.ChargeResult{TransactionID: "TXN-1"}}

	uc := NewSubmitPayment(sessions, gw, passthroughTx{}, memory.NewTripRepository(), &mockOutbox{}, testSchedules(), time.Second)
	receipt, err := uc.Execute(context.Background(), SubmitPaymentParams{SessionID: "sess-1", Method: gateway.MethodNetBanking})
	require.NoError(t, err)

	want := pricing.Compute(items, testSchedules().For(checkout.FlowFood))
	assert.Equal(t, want, receipt.Breakdown)
}
