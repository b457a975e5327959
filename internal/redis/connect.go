package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const maxBackoff = 16 * time.Second

type Options struct {
	Addr     string
	Password string
	// Attempts is the number of pings before giving up. Values below 1
	// mean a single attempt.
	Attempts int
}

// Connect opens a client and pings it until it answers, doubling the wait
// between attempts up to maxBackoff. The client is closed on failure.
func Connect(ctx context.Context, opts Options, logger *zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            opts.Addr,
		Password:        opts.Password,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})

	attempts := max(opts.Attempts, 1)
	backoff := time.Second

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = client.Ping(ctx).Err(); err == nil {
			logger.Info().Str("addr", opts.Addr).Int("attempt", attempt).Msg("Redis connected")
			return client, nil
		}

		logger.Warn().Err(err).Str("addr", opts.Addr).Int("attempt", attempt).Int("attempts", attempts).Msg("Redis ping failed")
		if attempt == attempts {
			break
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		}
		backoff = min(backoff*2, maxBackoff)
	}

	_ = client.Close()
	return nil, fmt.Errorf("failed to connect to Redis at %s after %d attempts: %w", opts.Addr, attempts, err)
}
