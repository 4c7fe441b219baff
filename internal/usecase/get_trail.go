package usecase

import (
	"context"
	"fmt"

	"github.com/pawan0320/ecovoyage-backend/internal/domain/inbox"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/outbox"
	"github.com/pawan0320/ecovoyage-backend/internal/domain/trip"
)

type OutboxLog interface {
	ListByCorrelationID(ctx context.Context, correlationID string) ([]*outbox.Event, error)
}

type InboxLog interface {
	ListByCorrelationID(ctx context.Context, correlationID string) ([]*inbox.Event, error)
}

// TrailDTO is the audit view of one booking: the record plus every event
// published and consumed for it.
type TrailDTO struct {
	Trip   *trip.ConfirmationRecord `json:"trip"`
	Outbox []*outbox.Event          `json:"outbox"`
	Inbox  []*inbox.Event           `json:"inbox"`
}

type GetTrail struct {
	trips     trip.Repository
	outboxLog OutboxLog
	inboxLog  InboxLog
}

func NewGetTrail(trips trip.Repository, outboxLog OutboxLog, inboxLog InboxLog) *GetTrail {
	return &GetTrail{
		trips:     trips,
		outboxLog: outboxLog,
		inboxLog:  inboxLog,
	}
}

func (uc *GetTrail) Execute(ctx context.Context, tripID string) (*TrailDTO, error) {
	rec, err := uc.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("get trip: %w", err)
	}

	outboxEvents, err := uc.outboxLog.ListByCorrelationID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("get outbox events: %w", err)
	}

	inboxEvents, err := uc.inboxLog.ListByCorrelationID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("get inbox events: %w", err)
	}

	return &TrailDTO{
		Trip:   rec,
		Outbox: outboxEvents,
		Inbox:  inboxEvents,
	}, nil
}
