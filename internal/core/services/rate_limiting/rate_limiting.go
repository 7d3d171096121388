package ratelimiting

import (
	"context"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/logging"
	ratelimiter "streemi/internal/core/domain/rate_limiter"
	"streemi/internal/core/services"
)

// Rule limits calls whose inputs map to the same key. An empty key means
// the rule does not apply to that input.
type Rule[T any] struct {
	Name  string
	Limit ratelimiter.Limit
	Key   func(T) string
}

type serviceWithRateLimiting[T any, S any] struct {
	log         logging.Logger
	rateLimiter ratelimiter.RateLimiter
	rules       []Rule[T]
	inner       services.Service[T, S]
}

// New checks every rule in order before calling inner. Each rule consumes
// one unit of its own limit even when a later rule rejects the call.
func New[T any, S any](
	log logging.Logger,
	rateLimiter ratelimiter.RateLimiter,
	inner services.Service[T, S],
	rules ...Rule[T],
) services.Service[T, S] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if rateLimiter == nil {
		panic(e.NewNilArgumentError("rateLimiter"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	if len(rules) == 0 {
		panic(e.NewEmptyArgumentError("rules"))
	}
	for _, rule := range rules {
		if rule.Key == nil {
			panic(e.NewNilArgumentError("rule.Key"))
		}
	}
	return &serviceWithRateLimiting[T, S]{
		log:         log,
		rateLimiter: rateLimiter,
		rules:       rules,
		inner:       inner,
	}
}

func (s *serviceWithRateLimiting[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	for _, rule := range s.rules {
		key := rule.Key(input)
		if key == "" {
			continue
		}
		rate := s.rateLimiter.CheckLimit(ctx, key, rule.Limit)
		if !rate.IsAllowed {
			s.log.Warning(
				ctx,
				"Rate limit exceeded.",
				logging.Entry("rule", rule.Name),
				logging.Entry("key", key),
				logging.Entry("limit", rule.Limit.Value),
			)
			return result, ratelimiter.ErrRateLimitExceeded
		}
	}
	return s.inner.Run(ctx, input)
}
