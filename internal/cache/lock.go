// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"stackify/internal/sitegen"
)

const (
	lockKeyPrefix = "lock:site:"

	// DefaultLockTTL bounds how long a crashed holder can block a site.
	DefaultLockTTL = 30 * time.Second

	lockRetryInterval = 100 * time.Millisecond
)

// ErrLockTimeout is returned when a site lock could not be taken in time.
// It matches sitegen.ErrSiteBusy; backend failures do not.
var ErrLockTimeout = fmt.Errorf("timed out waiting for site lock: %w", sitegen.ErrSiteBusy)

// releaseScript deletes the lock only if it still holds our token, so an
// expired holder never frees a lock someone else has since taken.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SiteLocks hands out per-site mutual exclusion across processes using
// SET NX PX with a random token.
type SiteLocks struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSiteLocks creates a lock manager. A lock is held for at most ttl and a
// caller waits for at most ttl before giving up.
func NewSiteLocks(client *redis.Client, ttl time.Duration) *SiteLocks {
	if ttl == 0 {
		ttl = DefaultLockTTL
	}
	return &SiteLocks{client: client, ttl: ttl}
}

// Lock blocks until the site's lock is acquired, ctx ends, or the wait
// exceeds the lock TTL. The returned func releases the lock and is safe to
// call once.
func (l *SiteLocks) Lock(ctx context.Context, siteID uuid.UUID) (func(), error) {
	key := lockKeyPrefix + siteID.String()
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("acquire site lock: %w", err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("acquire site lock %s: %w", siteID, ErrLockTimeout)
			}
			return nil, fmt.Errorf("acquire site lock %s: %w", siteID, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *SiteLocks) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		slog.Warn("site lock release failed", "key", key, "error", err)
	}
}
