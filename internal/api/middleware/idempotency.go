package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	processingMarker = "PROCESSING"
	lockTTL          = 10 * time.Second
	resultTTL        = 24 * time.Hour
)

type storedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Idempotency replays a previously captured response when a request repeats
// the same Idempotency-Key. While the first request is still running, a
// duplicate gets a conflict instead of a second execution.
func Idempotency(redisClient *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" || redisClient == nil {
				next.ServeHTTP(w, r)
				return
			}

			redisKey := fmt.Sprintf("idempotency:%s", key)
			ctx := r.Context()

			val, err := redisClient.Get(ctx, redisKey).Result()
			if err == nil {
				if val == processingMarker {
					w.WriteHeader(http.StatusConflict)
					w.Write([]byte(`{"error": "request already in progress"}`))
					return
				}
				var stored storedResponse
				if err := json.Unmarshal([]byte(val), &stored); err == nil {
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set("X-Idempotency-Replayed", "true")
					w.WriteHeader(stored.Status)
					w.Write([]byte(stored.Body))
					return
				}
			} else if err != redis.Nil {
				// degrade to non-idempotent rather than failing the request
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := redisClient.SetNX(ctx, redisKey, processingMarker, lockTTL).Result()
			if err != nil || !acquired {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"error": "concurrent request"}`))
				return
			}

			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			// server-side failures are retryable with the same key
			if rec.status >= http.StatusInternalServerError {
				redisClient.Del(ctx, redisKey)
				return
			}

			data, err := json.Marshal(storedResponse{Status: rec.status, Body: rec.body.String()})
			if err != nil {
				redisClient.Del(ctx, redisKey)
				return
			}
			redisClient.Set(ctx, redisKey, data, resultTTL)
		})
	}
}
