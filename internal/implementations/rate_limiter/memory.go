package ratelimiter

import (
	"context"
	"fmt"
	e "streemi/internal/core/domain/errors"
	ratelimiter "streemi/internal/core/domain/rate_limiter"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is a process-local fixed window limiter used when Redis is not configured.
type Memory struct {
	cache *gocache.Cache
	now   func() time.Time
}

func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Memory{cache: gocache.New(time.Hour, time.Minute), now: now}
}

func (m *Memory) CheckLimit(ctx context.Context, key string, limit ratelimiter.Limit) ratelimiter.Result {
	k := windowKey(key, limit.Interval, m.now())
	if err := m.cache.Add(k, int64(1), limit.Interval.Duration()); err == nil {
		return checkCount(1, limit)
	}
	count, err := m.cache.IncrementInt64(k, 1)
	if err != nil {
		// The window expired between Add and Increment.
		m.cache.Set(k, int64(1), limit.Interval.Duration())
		count = 1
	}
	return checkCount(count, limit)
}

func windowKey(key string, interval ratelimiter.Interval, now time.Time) string {
	switch interval {
	case ratelimiter.Hour:
		return fmt.Sprintf("%s::h%d", key, now.Hour())
	case ratelimiter.Minute:
		return fmt.Sprintf("%s::m%d", key, now.Minute())
	default:
		panic("invalid rate limiting interval")
	}
}

func checkCount(count int64, limit ratelimiter.Limit) ratelimiter.Result {
	if count > int64(limit.Value) {
		return ratelimiter.NotAllowed()
	}
	return ratelimiter.Allowed()
}
