package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pawan0320/ecovoyage-backend/internal/application/factories/infrastructure"
	"github.com/pawan0320/ecovoyage-backend/internal/config"
	domainEvent "github.com/pawan0320/ecovoyage-backend/internal/domain/event"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/pricing"
	"github.com/pawan0320/ecovoyage-backend/internal/infrastructure/postgres"
)

var notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "notifier_notifications_sent_total",
	Help: "The total number of notifications sent, by event type",
}, []string{"event_type"})

type bookingConfirmedPayload struct {
	TripID        string  `json:"trip_id"`
	UserID        string  `json:"user_id"`
	Flow          string  `json:"flow"`
	Destination   string  `json:"destination"`
	TravelDate    string  `json:"travel_date"`
	TotalCost     float64 `json:"total_cost"`
	Currency      string  `json:"currency"`
	TransactionID string  `json:"transaction_id"`
}

type tripCancelledPayload struct {
	TripID string `json:"trip_id"`
	Reason string `json:"reason"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.New()
	if err != nil {
		logger.Error("Failed to load config, using defaults", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("Notifier metrics listening on :9095")
		http.ListenAndServe(":9095", mux)
	}()

	infraFactory := infrastructure.NewFactory(cfg)
	defer infraFactory.Close()

	pgPool, err := infraFactory.Postgres(ctx)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	inboxRepo := postgres.NewInboxRepository(pgPool)

	const consumerName = "notifier-service"
	kafkaConsumer := infraFactory.KafkaConsumer(consumerName)
	defer kafkaConsumer.Close()

	logger.Info("Notifier started", "consumer", consumerName, "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)

	for {
		msg, err := kafkaConsumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Notifier stopping")
				break
			}
			logger.Error("failed to fetch message", "error", err)
			time.Sleep(1 * time.Second)
			continue
		}

		const maxRetries = 5
		for attempt := 0; attempt <= maxRetries; attempt++ {
			if attempt > 0 {
				backoff := time.Duration(1<<attempt) * time.Second
				logger.Info("Retry attempt", "attempt", attempt, "max", maxRetries, "backoff", backoff)
				time.Sleep(backoff)
			}

			processErr := process(ctx, pgPool, inboxRepo, consumerName, msg.Value)

			if processErr == nil {
				if err := kafkaConsumer.CommitMessages(ctx, msg); err != nil {
					logger.Error("failed to commit kafka message", "error", err)
				}
				break
			}

			logger.Error("Processing failed", "error", processErr)
			if attempt == maxRetries {
				logger.Error("DLQ: Dropping message after retries", "retries", maxRetries, "error", processErr)
				if err := kafkaConsumer.CommitMessages(ctx, msg); err != nil {
					logger.Error("failed to commit drop to kafka", "error", err)
				}
			}
		}
	}
}

func process(ctx context.Context, pool *pgxpool.Pool, inboxRepo *postgres.InboxRepository, consumerName string, raw []byte) error {
	var ev domainEvent.Message
	if err := json.Unmarshal(raw, &ev); err != nil {
		slog.Error("failed to unmarshal event envelope", "error", err)
		return nil
	}

	if ev.Type != domainEvent.TypeBookingConfirmed && ev.Type != domainEvent.TypeTripCancelled {
		return nil
	}

	slog.Info("Received event", "type", ev.Type, "correlation_id", ev.CorrelationID, "event_id", ev.ID)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	isNew, err := inboxRepo.SaveIfNotExists(ctx, tx, consumerName, ev.ID, ev.Type, ev.CorrelationID)
	if err != nil {
		return fmt.Errorf("inbox save: %w", err)
	}
	if !isNew {
		return tx.Commit(ctx)
	}

	switch ev.Type {
	case domainEvent.TypeBookingConfirmed:
		var p bookingConfirmedPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("unmarshal BookingConfirmed payload: %w", err)
		}
		// Delivery channel is a log line; swap in a mail or push provider here.
		slog.Info("Notification sent",
			"channel", "email",
			"trip_id", p.TripID,
			"destination", p.Destination,
			"total", pricing.Format(p.TotalCost, p.Currency),
			"transaction_id", p.TransactionID)

	case domainEvent.TypeTripCancelled:
		var p tripCancelledPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return fmt.Errorf("unmarshal TripCancelled payload: %w", err)
		}
		slog.Info("Notification sent",
			"channel", "email",
			"trip_id", p.TripID,
			"reason", p.Reason)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	notificationsSent.WithLabelValues(ev.Type).Inc()
	return nil
}
