package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pawan0320/ecovoyage-backend/internal/domain/trip"
)

const tripsCacheTTL = 2 * time.Second

// ListTrips returns the trip history, most recent first, through a short
// Redis read-through cache. The short TTL keeps status changes visible
// quickly.
type ListTrips struct {
	redisClient *redis.Client
	trips       trip.Repository
}

func NewListTrips(redisClient *redis.Client, trips trip.Repository) *ListTrips {
	return &ListTrips{
		redisClient: redisClient,
		trips:       trips,
	}
}

func (uc *ListTrips) Execute(ctx context.Context, limit int) ([]*trip.ConfirmationRecord, error) {
	cacheKey := fmt.Sprintf("trips:recent:%d", limit)

	if uc.redisClient != nil {
		val, err := uc.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var records []*trip.ConfirmationRecord
			if err := json.Unmarshal([]byte(val), &records); err == nil {
				return records, nil
			}
		}
	}

	records, err := uc.trips.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}

	if uc.redisClient != nil {
		if data, err := json.Marshal(records); err == nil {
			uc.redisClient.Set(ctx, cacheKey, data, tripsCacheTTL)
		}
	}

	return records, nil
}
