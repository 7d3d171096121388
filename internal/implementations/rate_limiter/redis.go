package ratelimiter

import (
	"context"
	"errors"
	e "streemi/internal/core/domain/errors"
	"streemi/internal/core/domain/logging"
	ratelimiter "streemi/internal/core/domain/rate_limiter"
	"time"

	"github.com/go-redis/redis/v9"
)

type Redis struct {
	redisClient *redis.Client
	log         logging.Logger
	now         func() time.Time
}

func NewRedis(redisClient *redis.Client, log logging.Logger, now func() time.Time) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Redis{redisClient: redisClient, log: log, now: now}
}

func (r *Redis) CheckLimit(ctx context.Context, key string, limit ratelimiter.Limit) ratelimiter.Result {
	k := windowKey(key, limit.Interval, r.now())
	d := limit.Interval.Duration()

	cmds, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, d)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return ratelimiter.NotAllowed()
	}
	if err != nil {
		r.log.Error(
			ctx,
			"Could not check rate limit due to Redis client error.",
			logging.Entry("key", key),
			logging.Entry("err", err),
		)
		return ratelimiter.Allowed()
	}
	intCmd := cmds[0].(*redis.IntCmd)
	return checkCount(intCmd.Val(), limit)
}
