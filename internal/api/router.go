package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pawan0320/ecovoyage-backend/internal/api/middleware"
)

func NewRouter(h *Handlers, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/checkouts", func(r chi.Router) {
		r.With(middleware.Idempotency(redisClient)).Post("/", h.StartCheckout)
		r.Get("/{id}", h.GetCheckout)
		r.Post("/{id}/items", h.ToggleItem)
		r.Post("/{id}/advance", h.Advance)
		r.Post("/{id}/skip", h.SkipStep)
		r.Post("/{id}/back", h.Back)
		r.Post("/{id}/proceed", h.Proceed)
		r.With(middleware.Idempotency(redisClient)).Post("/{id}/payment", h.SubmitPayment)
		r.Post("/{id}/payment/cancel", h.CancelPayment)
		r.Delete("/{id}", h.CancelCheckout)
	})

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", h.ListTrips)
		r.Post("/{id}/cancel", h.CancelTrip)
		r.Get("/{id}/trail", h.GetTrail)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
