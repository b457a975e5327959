package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const leaseKeyPrefix = "sweep:lease:"

const renewScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

type leaseClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// Lease makes one consumer the only reader of a stream group. Every depth
// of a sounding must be compared with the one before it, so the group's
// messages cannot be spread over several consumers.
type Lease struct {
	client leaseClient
	key    string
	owner  string
	ttl    time.Duration
}

func LeaseKey(stream, group string) string {
	return leaseKeyPrefix + stream + ":" + group
}

func NewLease(client leaseClient, stream, group, owner string, ttl time.Duration) *Lease {
	if ttl <= 0 {
		ttl = DefaultLeaseTTL
	}
	return &Lease{
		client: client,
		key:    LeaseKey(stream, group),
		owner:  owner,
		ttl:    ttl,
	}
}

// Acquire takes the lease if it is free or already ours.
func (l *Lease) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.owner, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lease %s: %w", l.key, err)
	}
	if ok {
		return true, nil
	}
	return l.Renew(ctx)
}

// Renew extends the lease. It reports false once another owner holds it.
func (l *Lease) Renew(ctx context.Context) (bool, error) {
	n, err := l.client.Eval(ctx, renewScript, []string{l.key}, l.owner, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to renew lease %s: %w", l.key, err)
	}
	return n == 1, nil
}

func (l *Lease) Release(ctx context.Context) error {
	if err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.owner).Err(); err != nil {
		return fmt.Errorf("failed to release lease %s: %w", l.key, err)
	}
	return nil
}

// RenewEvery is how often a holder should renew.
func (l *Lease) RenewEvery() time.Duration {
	return l.ttl / 3
}
