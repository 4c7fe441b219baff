package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawan0320/ecovoyage-backend/internal/domain/checkout"
	"github.com/pawan0320/ecovoyage-backend/internal/session"
)

func TestStartCheckout(t *testing.T) {
	sessions := session.NewStore()
	uc := NewStartCheckout(sessions, checkout.Registry())

	sess, err := uc.Execute(context.Background(), StartCheckoutParams{
		Flow:   "trip",
		UserID: "user-1",
		Context: checkout.TripContext{
			Destination:  "Goa",
			DurationDays: 3,
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, checkout.StepTransport, sess.Step())

	stored, ok := sessions.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, stored)
}

func TestStartCheckoutEachFlow(t *testing.T) {
	tests := []struct {
		flow string
		want checkout.Step
	}{
		{flow: "trip", want: checkout.StepTransport},
		{flow: "food", want: checkout.StepFood},
		{flow: "smart", want: checkout.StepHotelTransfer},
	}

	for _, tt := range tests {
		t.Run(tt.flow, func(t *testing.T) {
			uc := NewStartCheckout(session.NewStore(), checkout.Registry())
			sess, err := uc.Execute(context.Background(), StartCheckoutParams{Flow: tt.flow})
			require.NoError(t, err)
			assert.Equal(t, tt.want, sess.Step())
		})
	}
}

func TestStartCheckoutUnknownFlow(t *testing.T) {
	sessions := session.NewStore()
	uc := NewStartCheckout(sessions, checkout.Registry())

	_, err := uc.Execute(context.Background(), StartCheckoutParams{Flow: "cruise"})
	assert.ErrorIs(t, err, checkout.ErrUnknownFlow)
	assert.Equal(t, 0, sessions.Len())
}
