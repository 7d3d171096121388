package ratelimiter

import (
	"context"
	"sync"
)

// FakeRateLimiter records every checked key. Keys listed in Denied are
// rejected regardless of IsAllowed.
type FakeRateLimiter struct {
	IsAllowed bool
	Denied    map[string]bool
	Keys      []string
	lock      sync.Mutex
}

func NewFakeRateLimiter(isAllowed bool) *FakeRateLimiter {
	return &FakeRateLimiter{IsAllowed: isAllowed, Denied: make(map[string]bool)}
}

func (rl *FakeRateLimiter) CheckLimit(ctx context.Context, key string, limit Limit) Result {
	rl.lock.Lock()
	defer rl.lock.Unlock()
	rl.Keys = append(rl.Keys, key)
	if rl.IsAllowed && !rl.Denied[key] {
		return Allowed()
	}
	return NotAllowed()
}
