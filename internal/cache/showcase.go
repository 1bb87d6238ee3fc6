// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	showcaseKey = "showcase:public"

	// DefaultShowcaseTTL is how long the encoded showcase list stays cached.
	DefaultShowcaseTTL = 2 * time.Minute
)

// ShowcaseCache holds the encoded public showcase list so the landing page
// does not hit PostgreSQL on every request. Errors are logged and treated
// as a miss; the database stays the source of truth.
type ShowcaseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewShowcaseCache creates a showcase cache backed by the given Valkey client.
func NewShowcaseCache(client *redis.Client, ttl time.Duration) *ShowcaseCache {
	if ttl == 0 {
		ttl = DefaultShowcaseTTL
	}
	return &ShowcaseCache{client: client, ttl: ttl}
}

// Get returns the cached showcase body, if any.
func (c *ShowcaseCache) Get(ctx context.Context) ([]byte, bool) {
	val, err := c.client.Get(ctx, showcaseKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("showcase cache get error", "error", err)
		return nil, false
	}
	return val, true
}

// Set stores the encoded showcase body with the configured TTL.
func (c *ShowcaseCache) Set(ctx context.Context, body []byte) {
	if err := c.client.Set(ctx, showcaseKey, body, c.ttl).Err(); err != nil {
		slog.Warn("showcase cache set error", "error", err)
	}
}

// Invalidate drops the cached showcase. Called whenever a review decision
// or a deletion may change what is listed.
func (c *ShowcaseCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, showcaseKey).Err(); err != nil {
		slog.Warn("showcase cache invalidate error", "error", err)
		return
	}
	slog.Debug("showcase cache invalidated")
}
