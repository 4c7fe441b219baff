package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pawan0320/ecovoyage-backend/internal/domain/checkout"
	"github.com/pawan0320/ecovoyage-backend/internal/session"
)

type StartCheckout struct {
	sessions *session.Store
	flows    map[checkout.FlowID]checkout.Flow
}

func NewStartCheckout(sessions *session.Store, flows map[checkout.FlowID]checkout.Flow) *StartCheckout {
	return &StartCheckout{
		sessions: sessions,
		flows:    flows,
	}
}

type StartCheckoutParams struct {
	Flow    string               `json:"flow"`
	UserID  string               `json:"user_id"`
	Context checkout.TripContext `json:"context"`
}

func (uc *StartCheckout) Execute(_ context.Context, params StartCheckoutParams) (*checkout.Session, error) {
	flow, ok := uc.flows[checkout.FlowID(params.Flow)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", checkout.ErrUnknownFlow, params.Flow)
	}

	sess := checkout.NewSession(uuid.New().String(), params.UserID, flow, params.Context)
	uc.sessions.Put(sess)
	checkoutsStarted.Inc()

	return sess, nil
}
