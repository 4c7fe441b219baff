package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pawan0320/ecovoyage-backend/internal/api"
	"github.com/pawan0320/ecovoyage-backend/internal/application/factories/infrastructure"
	"github.com/pawan0320/ecovoyage-backend/internal/catalog"
	"github.com/pawan0320/ecovoyage-backend/internal/config"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/checkout"
	"github.com/pawan0320/ecovoyage-backend/internal/gateway"
	"github.com/pawan0320/ecovoyage-backend/internal/infrastructure/postgres"
	"github.com/pawan0320/ecovoyage-backend/internal/session"
	"github.com/pawan0320/ecovoyage-backend/internal/usecase"
)

func main() {
	// Initialize structured JSON logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	infraFactory := infrastructure.NewFactory(cfg)
	defer infraFactory.Close()

	pgPool, err := infraFactory.Postgres(ctx)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	if err := infraFactory.Migrate(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := infraFactory.Redis(ctx)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// Repositories
	tripRepo := postgres.NewTripRepository(pgPool)
	outboxRepo := postgres.NewOutboxRepository(pgPool)
	inboxRepo := postgres.NewInboxRepository(pgPool)
	txManager := postgres.NewTxManager(pgPool)

	sessions := session.NewStore()
	flows := checkout.Registry()
	schedules := usecase.SchedulesFromConfig(cfg)

	// Payment gateway: simulated processor behind a circuit breaker
	simulator := gateway.NewSimulator(
		cfg.Payment.Delay,
		gateway.UUIDSource{},
		gateway.RandomOutcome{DeclineRate: cfg.Payment.DeclineRate},
	)
	gw := gateway.NewBreaker(simulator)

	// UseCases
	startCheckoutUC := usecase.NewStartCheckout(sessions, flows)
	submitPaymentUC := usecase.NewSubmitPayment(sessions, gw, txManager, tripRepo, outboxRepo, schedules, cfg.Payment.Timeout)
	listTripsUC := usecase.NewListTrips(redisClient, tripRepo)
	cancelTripUC := usecase.NewCancelTrip(txManager, tripRepo, outboxRepo)
	getTrailUC := usecase.NewGetTrail(tripRepo, outboxRepo, inboxRepo)

	handlers := api.NewHandlers(
		startCheckoutUC,
		submitPaymentUC,
		listTripsUC,
		cancelTripUC,
		getTrailUC,
		sessions,
		catalog.NewStatic(),
		schedules,
	)
	apiHandler := otelhttp.NewHandler(api.NewRouter(handlers, redisClient), "booking-api")

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: apiHandler,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exiting")
}
