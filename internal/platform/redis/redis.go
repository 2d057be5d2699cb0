package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect parses the URL, opens a client and pings it once so a broken
// address fails at startup rather than on the first draft save.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
