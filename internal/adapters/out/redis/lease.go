// Package redis implements the cross-instance lease on Redis, so that only one
// service instance runs a scheduled job per tick.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"iskxpress/internal/core/domain/model/kernel"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "iskxpress:lease:"

// releaseScript deletes the lease only while it still carries this holder's token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lease is a SET NX PX lock. Each Lease value has its own holder token, so an
// instance can release only what it acquired and an expired lease taken over by
// another instance is left alone.
type Lease struct {
	client goredis.UniversalClient
	token  string
}

// NewLease creates a lease holder with its own random token.
func NewLease(client goredis.UniversalClient) *Lease {
	return &Lease{client: client, token: kernel.NewUUID().String()}
}

// TryAcquire takes name for ttl unless someone else holds it. Holding it already
// extends the lease.
func (l *Lease) TryAcquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if name == "" {
		return false, errors.New("lease name is empty")
	}

	ok, err := l.client.SetNX(ctx, keyPrefix+name, l.token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lease %s: %w", name, err)
	}
	if ok {
		return true, nil
	}

	// a previous tick of this instance may still hold it
	holder, err := l.client.Get(ctx, keyPrefix+name).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read lease %s: %w", name, err)
	}
	if holder != l.token {
		return false, nil
	}
	if err = l.client.PExpire(ctx, keyPrefix+name, ttl).Err(); err != nil {
		return false, fmt.Errorf("extend lease %s: %w", name, err)
	}
	return true, nil
}

// Release gives name up if this holder still owns it.
func (l *Lease) Release(ctx context.Context, name string) error {
	if err := releaseScript.Run(ctx, l.client, []string{keyPrefix + name}, l.token).Err(); err != nil {
		return fmt.Errorf("release lease %s: %w", name, err)
	}
	return nil
}
