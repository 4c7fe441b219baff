package memory

import (
	"context"
	"sync"

	"github.com/pawan0320/ecovoyage-backend/internal/domain/trip"
)

// TripRepository is the in-memory trip history, used in tests and when the
// api runs without a database. Appends are atomic under the mutex; List
// returns most recent first.
type TripRepository struct {
	mu      sync.Mutex
	records []*trip.ConfirmationRecord
}

func NewTripRepository() *TripRepository {
	return &TripRepository{}
}

func (r *TripRepository) Append(_ context.Context, rec *trip.ConfirmationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.records = append(r.records, &cp)
	return nil
}

func (r *TripRepository) List(_ context.Context, limit int) ([]*trip.ConfirmationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*trip.ConfirmationRecord
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.records[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *TripRepository) GetByID(_ context.Context, id string) (*trip.ConfirmationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, trip.ErrNotFound
}

func (r *TripRepository) UpdateStatus(_ context.Context, id string, status trip.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			rec.Status = status
			return nil
		}
	}
	return trip.ErrNotFound
}
