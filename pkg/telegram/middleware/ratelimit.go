package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/tunehound/tunehound/pkg/storage"
)

const (
	rateWindow  = 5 * time.Second
	maxRequests = 3
)

// RateLimiter throttles per-user requests through Redis.
type RateLimiter struct {
	store *storage.Client
}

func NewRateLimiter(store *storage.Client) *RateLimiter {
	return &RateLimiter{store: store}
}

// Allow reports whether the user is still under the request budget for the
// current window. Redis trouble must not take the bot down, so errors count
// as allowed.
func (r *RateLimiter) Allow(ctx context.Context, userID int64) bool {
	count, err := r.store.RateTick(ctx, fmt.Sprintf("rate:%d", userID), rateWindow)
	if err != nil {
		return true
	}
	return count <= maxRequests
}
