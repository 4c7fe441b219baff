package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pawan0320/ecovoyage-backend/internal/catalog"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/checkout"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/trip"
	"github.com/pawan0320/ecovoyage-backend/internal/gateway"
	"github.com/pawan0320/ecovoyage-backend/internal/session"
	"github.com/pawan0320/ecovoyage-backend/internal/usecase"
)

type Handlers struct {
	startCheckoutUC *usecase.StartCheckout
	submitPaymentUC *usecase.SubmitPayment
	listTripsUC     *usecase.ListTrips
	cancelTripUC    *usecase.CancelTrip
	getTrailUC      *usecase.GetTrail
	sessions        *session.Store
	catalog         catalog.Source
	schedules       usecase.ScheduleSet
}

func NewHandlers(
	startCheckoutUC *usecase.StartCheckout,
	submitPaymentUC *usecase.SubmitPayment,
	listTripsUC *usecase.ListTrips,
	cancelTripUC *usecase.CancelTrip,
	getTrailUC *usecase.GetTrail,
	sessions *session.Store,
	src catalog.Source,
	schedules usecase.ScheduleSet,
) *Handlers {
	return &Handlers{
		startCheckoutUC: startCheckoutUC,
		submitPaymentUC: submitPaymentUC,
		listTripsUC:     listTripsUC,
		cancelTripUC:    cancelTripUC,
		getTrailUC:      getTrailUC,
		sessions:        sessions,
		catalog:         src,
		schedules:       schedules,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps domain errors onto HTTP statuses. Everything in this
// taxonomy is recoverable by retry, skip or cancel, so nothing maps to 500
// except genuinely unknown failures.
func statusFor(err error) int {
	var ve *gateway.ValidationError
	var de *gateway.DeclineError
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound), errors.Is(err, trip.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, checkout.ErrUnknownFlow):
		return http.StatusBadRequest
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &de):
		return http.StatusPaymentRequired
	case errors.Is(err, usecase.ErrPaymentTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, checkout.ErrPaymentPending),
		errors.Is(err, checkout.ErrStaleAttempt),
		errors.Is(err, checkout.ErrNotInSelection),
		errors.Is(err, checkout.ErrNotAtPayment),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrAtFirstStep),
		errors.Is(err, checkout.ErrCompleted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*checkout.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := h.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, usecase.ErrSessionNotFound)
		return nil, false
	}
	return sess, true
}

func (h *Handlers) view(sess *checkout.Session) CheckoutView {
	return buildView(sess, h.catalog, h.schedules)
}

func (h *Handlers) StartCheckout(w http.ResponseWriter, r *http.Request) {
	var params usecase.StartCheckoutParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	sess, err := h.startCheckoutUC.Execute(r.Context(), params)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusCreated, h.view(sess))
}

func (h *Handlers) GetCheckout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.view(sess))
}

func (h *Handlers) ToggleItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var item checkout.LineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item.ID == "" {
		writeError(w, http.StatusBadRequest, errors.New("invalid line item"))
		return
	}

	if _, err := sess.Toggle(item); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, h.view(sess))
}

func (h *Handlers) Advance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(sess *checkout.Session) (checkout.Step, error) {
		return sess.Advance()
	})
}

func (h *Handlers) SkipStep(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(sess *checkout.Session) (checkout.Step, error) {
		return sess.Skip()
	})
}

func (h *Handlers) Back(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(sess *checkout.Session) (checkout.Step, error) {
		return sess.Back()
	})
}

func (h *Handlers) Proceed(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(sess *checkout.Session) (checkout.Step, error) {
		return sess.GoToPayment()
	})
}

func (h *Handlers) CancelPayment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(sess *checkout.Session) (checkout.Step, error) {
		return sess.CancelPayment()
	})
}

func (h *Handlers) transition(w http.ResponseWriter, r *http.Request, f func(*checkout.Session) (checkout.Step, error)) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if _, err := f(sess); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, h.view(sess))
}

func (h *Handlers) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var params usecase.SubmitPaymentParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	params.SessionID = chi.URLParam(r, "id")

	receipt, err := h.submitPaymentUC.Execute(r.Context(), params)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

// CancelCheckout discards the session entirely; an abandoned checkout leaves
// no trace.
func (h *Handlers) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.sessions.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListTrips(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	records, err := h.listTripsUC.Execute(r.Context(), limit)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	writeJSON(w, http.StatusOK, map[string]any{"trips": records})
}

func (h *Handlers) CancelTrip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	// body is optional, an empty reason is fine
	_ = json.NewDecoder(r.Body).Decode(&req)

	err := h.cancelTripUC.Execute(r.Context(), usecase.CancelTripParams{
		TripID: chi.URLParam(r, "id"),
		Reason: req.Reason,
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "cancellation_initiated"})
}

func (h *Handlers) GetTrail(w http.ResponseWriter, r *http.Request) {
	trail, err := h.getTrailUC.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, trail)
}
