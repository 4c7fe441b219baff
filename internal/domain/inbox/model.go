package inbox

import "time"

// Event records that a consumer already processed a message (inbox pattern).
// The (consumer, event id) pair is unique, which makes redelivery a no-op.
type Event struct {
	Consumer      string    `json:"consumer"`
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	CorrelationID string    `json:"correlation_id"`
	ProcessedAt   time.Time `json:"processed_at"`
}
