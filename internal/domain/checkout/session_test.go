package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tripFlow(t *testing.T) Flow {
	t.Helper()
	f, ok := Registry()[FlowTrip]
	require.True(t, ok)
	return f
}

func foodFlow(t *testing.T) Flow {
	t.Helper()
	f, ok := Registry()[FlowFood]
	require.True(t, ok)
	return f
}

func smartFlow(t *testing.T) Flow {
	t.Helper()
	f, ok := Registry()[FlowSmart]
	require.True(t, ok)
	return f
}

func item(id string, price float64) LineItem {
	return LineItem{ID: id, Name: id, Price: price}
}

// drive a session through its selection steps to the summary.
func toSummary(t *testing.T, s *Session) {
	t.Helper()
	for s.Step() != StepSummary {
		_, err := s.Advance()
		require.NoError(t, err)
	}
}

func TestNewSessionStartsAtFirstStep(t *testing.T) {
	s := NewSession("s1", "u1", tripFlow(t), TripContext{DurationDays: 5})
	assert.Equal(t, StepTransport, s.Step())
	assert.Empty(t, s.Skipped())
}

func TestToggleAddsAndRemoves(t *testing.T) {
	s := NewSession("s1", "u1", tripFlow(t), TripContext{})

	added, err := s.Toggle(item("tr-flight", 4999))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Len(t, s.Cart(), 1)

	// same id toggles off, regardless of the rest of the payload
	added, err = s.Toggle(LineItem{ID: "tr-flight"})
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, s.Cart())
}

func TestAdvanceWalksAllSteps(t *testing.T) {
	s := NewSession("s1", "u1", tripFlow(t), TripContext{DurationDays: 5})
	_, err := s.Toggle(item("tr-flight", 4999))
	require.NoError(t, err)

	var visited []Step
	visited = append(visited, s.Step())
	for s.Step() != StepSummary {
		st, err := s.Advance()
		require.NoError(t, err)
		visited = append(visited, st)
	}

	assert.Equal(t, []Step{StepTransport, StepStay, StepExperiences, StepGroceries, StepSummary}, visited)
	assert.Empty(t, s.Skipped())
}

func TestShortStayElidesGroceries(t *testing.T) {
	s := NewSession("s1", "u1", tripFlow(t), TripContext{DurationDays: 1})
	_, err := s.Toggle(item("tr-flight", 4999))
	require.NoError(t, err)

	var visited []Step
	visited = append(visited, s.Step())
	for s.Step() != StepSummary {
		st, err := s.Advance()
		require.NoError(t, err)
		visited = append(visited, st)
	}

	assert.Equal(t, []Step{StepTransport, StepStay, StepExperiences, StepSummary}, visited)
	assert.Equal(t, []Step{StepGroceries}, s.Skipped())
}

func TestUnknownDurationShowsGroceries(t *testing.T) {
	s := NewSession("s1", "u1", tripFlow(t), TripContext{})
	_, err := s.Toggle(item("x", 1))
	require.NoError(t, err)

	for s.Step() != StepSummary {
		_, err := s.Advance()
		require.NoError(t, err)
	}
	assert.Empty(t, s.Skipped())
}

func TestSkipRecordsStepOnce(t *testing.T) {
	s := NewSession("s1", "u1", tripFlow(t), TripContext{})

	st, err := s.Skip()
	require.NoError(t, err)
	assert.Equal(t, StepStay, st)

	// going back and skipping again must not duplicate the entry
	_, err = s.Back()
	require.NoError(t, err)
	_, err = s.Skip()
	require.NoError(t, err)

	assert.Equal(t, []Step{StepTransport}, s.Skipped())
}

func TestBackIsNonDestructive(t *testing.T) {
	s := NewSession("s1", "u1", tripFlow(t), TripContext{})
	_, err := s.Toggle(item("tr-flight", 4999))
	require.NoError(t, err)

	_, err = s.Advance()
	require.NoError(t, err)
	_, err = s.Toggle(item("st-hotel", 2200))
	require.NoError(t, err)

	st, err := s.Back()
	require.NoError(t, err)
	assert.Equal(t, StepTransport, st)
	assert.Len(t, s.Cart(), 2)
}

func TestBackAtFirstStep(t *testing.T) {
	s := NewSession("s1", "u1", tripFlow(t), TripContext{})
	_, err := s.Back()
	assert.ErrorIs(t, err, ErrAtFirstStep)
}

func TestBackNeverRevisitsElidedStep(t *testing.T) {
	s := NewSession("s1", "u1", smartFlow(t), TripContext{DurationDays: 1})
	_, err := s.Toggle(item("x", 1))
	require.NoError(t, err)

	// hotel_transfer -> stay -> (groceries elided) -> return_transport
	_, err = s.Advance()
	require.NoError(t, err)
	st, err := s.Advance()
	require.NoError(t, err)
	require.Equal(t, StepReturnTransport, st)
	require.Equal(t, []Step{StepGroceries}, s.Skipped())

	st, err = s.Back()
	require.NoError(t, err)
	assert.Equal(t, StepStay, st)
}

func TestEmptyCartCannotReachPayment(t *testing.T) {
	s := NewSession("s1", "u1", tripFlow(t), TripContext{})
	toSummary(t, s)

	_, err := s.GoToPayment()
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StepSummary, s.Step())
}

func TestGoToPaymentFromSummary(t *testing.T) {
	s := NewSession("s1", "u1", tripFlow(t), TripContext{})
	_, err := s.Toggle(item("tr-flight", 4999))
	require.NoError(t, err)
	toSummary(t, s)

	st, err := s.GoToPayment()
	require.NoError(t, err)
	assert.Equal(t, StepPayment, st)
}

func TestGoToPaymentRequiresSummaryWhenFlowHasOne(t *testing.T) {
	s := NewSession("s1", "u1", tripFlow(t), TripContext{})
	_, err := s.Toggle(item("tr-flight", 4999))
	require.NoError(t, err)

	_, err = s.GoToPayment()
	assert.ErrorIs(t, err, ErrNotInSelection)
}

func TestFoodFlowSkipsSummary(t *testing.T) {
	s := NewSession("s1", "u1", foodFlow(t), TripContext{})
	assert.Equal(t, StepFood, s.Step())

	// the food flow has a single step and no summary; it may check out
	// with an empty cart
	st, err := s.GoToPayment()
	require.NoError(t, err)
	assert.Equal(t, StepPayment, st)

	st, err = s.Back()
	require.NoError(t, err)
	assert.Equal(t, StepFood, st)
}

func TestConfirmRequiresPaymentStep(t *testing.T) {
	s := NewSession("s1", "u1", tripFlow(t), TripContext{})
	_, err := s.BeginPayment()
	assert.ErrorIs(t, err, ErrNotAtPayment)
	assert.False(t, s.Confirmed())
}

func TestPaymentLifecycle(t *testing.T) {
	s := NewSession("s1", "u1", foodFlow(t), TripContext{})
	_, err := s.Toggle(item("fd-thali", 220))
	require.NoError(t, err)
	_, err = s.GoToPayment()
	require.NoError(t, err)

	attempt, err := s.BeginPayment()
	require.NoError(t, err)
	assert.True(t, s.PaymentPending())

	// every transition is rejected while the attempt is in flight
	_, err = s.Toggle(item("fd-juice", 80))
	assert.ErrorIs(t, err, ErrPaymentPending)
	_, err = s.Back()
	assert.ErrorIs(t, err, ErrPaymentPending)
	_, err = s.BeginPayment()
	assert.ErrorIs(t, err, ErrPaymentPending)

	require.NoError(t, s.Succeed(attempt, "TXN-1"))
	assert.True(t, s.Confirmed())
	assert.Equal(t, StepConfirmed, s.Step())
	assert.Equal(t, "TXN-1", s.TransactionID())

	// a confirmed session is immutable
	_, err = s.Toggle(item("fd-juice", 80))
	assert.ErrorIs(t, err, ErrCompleted)
	_, err = s.CancelPayment()
	assert.ErrorIs(t, err, ErrCompleted)
}

func TestFailedAttemptKeepsSessionAtPayment(t *testing.T) {
	s := NewSession("s1", "u1", foodFlow(t), TripContext{})
	_, err := s.GoToPayment()
	require.NoError(t, err)

	attempt, err := s.BeginPayment()
	require.NoError(t, err)
	require.NoError(t, s.Fail(attempt))

	assert.Equal(t, StepPayment, s.Step())
	assert.False(t, s.PaymentPending())

	// retry gets a fresh token
	next, err := s.BeginPayment()
	require.NoError(t, err)
	assert.NotEqual(t, attempt, next)
}

func TestCancelDiscardsRacingResolution(t *testing.T) {
	s := NewSession("s1", "u1", foodFlow(t), TripContext{})
	_, err := s.GoToPayment()
	require.NoError(t, err)

	attempt, err := s.BeginPayment()
	require.NoError(t, err)

	st, err := s.CancelPayment()
	require.NoError(t, err)
	assert.Equal(t, StepFood, st)

	// the charge resolved after the user walked away; its token is stale
	assert.ErrorIs(t, s.Succeed(attempt, "TXN-late"), ErrStaleAttempt)
	assert.ErrorIs(t, s.Fail(attempt), ErrStaleAttempt)
	assert.False(t, s.Confirmed())
	assert.Empty(t, s.TransactionID())
}

func TestSuccessfulAttemptBeatsLateCancel(t *testing.T) {
	s := NewSession("s1", "u1", foodFlow(t), TripContext{})
	_, err := s.GoToPayment()
	require.NoError(t, err)

	attempt, err := s.BeginPayment()
	require.NoError(t, err)
	require.NoError(t, s.Succeed(attempt, "TXN-1"))

	_, err = s.CancelPayment()
	assert.ErrorIs(t, err, ErrCompleted)
	assert.True(t, s.Confirmed())
}
