package event

import (
	"encoding/json"
	"time"
)

// Event types published on the booking topic.
const (
	TypeBookingConfirmed = "BookingConfirmed"
	TypeTripCancelled    = "TripCancelled"
)

// Message is the envelope published to Kafka. Payload is the raw JSON
// produced by the originating service; CorrelationID ties every message of a
// booking together.
type Message struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	CorrelationID string          `json:"correlation_id"`
	CausationID   string          `json:"causation_id,omitempty"`
	Producer      string          `json:"producer"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}
