package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawan0320/ecovoyage-backend/internal/domain/event"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/outbox"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/trip"
)

// CancelTrip flips a confirmed booking to Cancelled and announces it. The
// status update and the outbox event commit together; cancelling an already
// cancelled trip is a no-op.
type CancelTrip struct {
	tx     Transactor
	trips  trip.Repository
	outbox OutboxWriter
}

func NewCancelTrip(tx Transactor, trips trip.Repository, ob OutboxWriter) *CancelTrip {
	return &CancelTrip{
		tx:     tx,
		trips:  trips,
		outbox: ob,
	}
}

type CancelTripParams struct {
	TripID string `json:"trip_id"`
	Reason string `json:"reason"`
}

type tripCancelledPayload struct {
	TripID      string    `json:"trip_id"`
	Reason      string    `json:"reason,omitempty"`
	CancelledAt time.Time `json:"cancelled_at"`
}

func (uc *CancelTrip) Execute(ctx context.Context, params CancelTripParams) error {
	rec, err := uc.trips.GetByID(ctx, params.TripID)
	if err != nil {
		return fmt.Errorf("get trip: %w", err)
	}
	if rec.Status == trip.StatusCancelled {
		return nil
	}

	payload, err := json.Marshal(tripCancelledPayload{
		TripID:      params.TripID,
		Reason:      params.Reason,
		CancelledAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal cancellation payload: %w", err)
	}

	outboxEvent := &outbox.Event{
		ID:            uuid.New().String(),
		EventType:     event.TypeTripCancelled,
		Payload:       payload,
		Status:        outbox.StatusNew,
		CorrelationID: params.TripID,
		Producer:      producerName,
		CreatedAt:     time.Now(),
	}

	err = uc.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.trips.UpdateStatus(txCtx, params.TripID, trip.StatusCancelled); err != nil {
			return err
		}
		return uc.outbox.Create(txCtx, outboxEvent)
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}
