package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds only the connectivity check; slot operations run under
// their callers' contexts.
const pingTimeout = 5 * time.Second

// Connect opens a client against the given address and logical database and
// verifies connectivity with a ping before handing it to the slot.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %q: %w", addr, err)
	}
	return client, nil
}
