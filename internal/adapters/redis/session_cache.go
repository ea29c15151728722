package redis

// Package redis provides Redis-based adapters for the portal.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
)

// DefaultSessionKey is the single key holding the serialized snapshot.
const DefaultSessionKey = "vive-avila:session"

// SessionCache stores at most one session snapshot under a fixed key.
// The snapshot carries no TTL: it survives restarts and is removed only by
// Clear. Corrupt or missing data loads as absent.
type SessionCache struct {
	client redis.UniversalClient
	key    string
	logger *slog.Logger
}

// NewSessionCache creates a session cache on the default key.
func NewSessionCache(client redis.UniversalClient) *SessionCache {
	return NewSessionCacheWithKey(client, DefaultSessionKey)
}

// NewSessionCacheWithKey creates a session cache on a custom key.
func NewSessionCacheWithKey(client redis.UniversalClient, key string) *SessionCache {
	return &SessionCache{client: client, key: key, logger: slog.Default()}
}

// WithLogger replaces the logger used for soft-failure reporting.
func (c *SessionCache) WithLogger(logger *slog.Logger) *SessionCache {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Load reads the stored snapshot. A missing key or an undecodable payload
// is reported as absent; only transport failures surface as errors.
func (c *SessionCache) Load(ctx context.Context) (*domainauth.Snapshot, error) {
	data, err := c.client.Get(ctx, c.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var snap domainauth.Snapshot
	if unmarshalErr := json.Unmarshal([]byte(data), &snap); unmarshalErr != nil {
		c.logger.WarnContext(ctx, "discarding corrupt session snapshot", "error", unmarshalErr)
		return nil, nil
	}
	if snap.UID == "" {
		// A snapshot without a principal id is as good as no snapshot.
		return nil, nil
	}
	return &snap, nil
}

// Save overwrites the stored snapshot.
func (c *SessionCache) Save(ctx context.Context, snap domainauth.Snapshot) error {
	if snap.UID == "" {
		return errors.New("snapshot uid cannot be empty")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return c.client.Set(ctx, c.key, data, 0).Err()
}

// Clear removes the stored snapshot.
func (c *SessionCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
