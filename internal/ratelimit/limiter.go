package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dawaa-dev/backend-dawaa/internal/common"
)

// Limiter enforces a sliding-window rate limit backed by a redis sorted set.
type Limiter struct {
	R      *redis.Client
	Window time.Duration
	Max    int
	Prefix string
}

// Result describes the outcome of a limiter check.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Allow records one hit for key and reports whether it stays within the window budget.
func (l Limiter) Allow(ctx context.Context, key string) (Result, error) {
	if l.R == nil || l.Max <= 0 || l.Window <= 0 {
		return Result{Allowed: true, Remaining: l.Max}, nil
	}
	now := time.Now()
	windowStart := now.Add(-l.Window)
	redisKey := l.Prefix + key

	pipe := l.R.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()),
	})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("ratelimit pipeline: %w", err)
	}

	count := int(countCmd.Val())
	if count > l.Max {
		oldest, err := l.R.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
		retryAfter := l.Window
		if err == nil && len(oldest) > 0 {
			oldestAt := time.Unix(0, int64(oldest[0].Score))
			retryAfter = l.Window - now.Sub(oldestAt)
			if retryAfter < 0 {
				retryAfter = 0
			}
		}
		return Result{Allowed: false, Remaining: 0, RetryAfter: retryAfter}, nil
	}
	return Result{Allowed: true, Remaining: l.Max - count}, nil
}

// Handler wraps next with per-client-IP rate limiting.
func (l Limiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := l.Allow(r.Context(), common.ClientIP(r))
		if err != nil {
			// fail open on redis trouble
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.Max))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
