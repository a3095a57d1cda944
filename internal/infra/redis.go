package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis opens the connection backing the close journal and the
// notification queue. The ping fails the gateway at startup rather than
// on the first cierre, when a missing journal would silently cost the
// retry idempotency.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
