package trip

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("trip not found")

// Status is the lifecycle of a confirmed booking. Records are created as
// Upcoming; cancellation is the only transition the backend performs.
type Status string

const (
	StatusUpcoming  Status = "Upcoming"
	StatusCancelled Status = "Cancelled"
)

// ConfirmationRecord is the durable output of a successful checkout. It is
// appended to the trip history exactly once, on payment success.
type ConfirmationRecord struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id,omitempty"`
	Flow          string    `json:"flow"`
	Destination   string    `json:"destination"`
	TravelDate    string    `json:"travel_date,omitempty"` // YYYY-MM-DD
	TotalCost     float64   `json:"total_cost"`
	Currency      string    `json:"currency"`
	TransactionID string    `json:"transaction_id"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Repository is the trip history store. Append must be atomic with respect
// to concurrent checkout sessions; List returns most recent first.
type Repository interface {
	Append(ctx context.Context, rec *ConfirmationRecord) error
	List(ctx context.Context, limit int) ([]*ConfirmationRecord, error)
	GetByID(ctx context.Context, id string) (*ConfirmationRecord, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
