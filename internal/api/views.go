package api

import (
	"github.com/pawan0320/ecovoyage-backend/internal/catalog"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/checkout"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/pricing"
	"github.com/pawan0320/ecovoyage-backend/internal/usecase"
)

// CheckoutView is what the rendering layer re-renders after every mutation:
// the current step, the cart, the live price breakdown, and the candidate
// items for the step.
type CheckoutView struct {
	ID             string              `json:"id"`
	Flow           string              `json:"flow"`
	Step           checkout.Step       `json:"step"`
	Cart           []checkout.LineItem `json:"cart"`
	SkippedSteps   []checkout.Step     `json:"skipped_steps"`
	Breakdown      pricing.Breakdown   `json:"breakdown"`
	DisplayTotal   string              `json:"display_total"`
	Catalog        []checkout.LineItem `json:"catalog,omitempty"`
	PaymentPending bool                `json:"payment_pending,omitempty"`
	TransactionID  string              `json:"transaction_id,omitempty"`
}

func buildView(sess *checkout.Session, src catalog.Source, schedules usecase.ScheduleSet) CheckoutView {
	step := sess.Step()
	sched := schedules.For(sess.Flow.ID)
	breakdown := pricing.Compute(sess.Cart(), sched)

	view := CheckoutView{
		ID:             sess.ID,
		Flow:           string(sess.Flow.ID),
		Step:           step,
		Cart:           sess.Cart(),
		SkippedSteps:   sess.Skipped(),
		Breakdown:      breakdown,
		DisplayTotal:   pricing.Format(breakdown.Total, breakdown.Currency),
		PaymentPending: sess.PaymentPending(),
		TransactionID:  sess.TransactionID(),
	}

	switch step {
	case checkout.StepSummary, checkout.StepPayment, checkout.StepConfirmed:
	default:
		view.Catalog = src.ItemsFor(step)
	}

	return view
}
