// Package cache stores encoded renders keyed by their inputs. Renders are
// deterministic for seeded grain, so identical requests can be served from
// any backend: a no-op, a local directory or Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownBackend is returned by Open for an unsupported URL scheme.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Cache is a byte store with optional expiration.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key builds a cache key of the form prefix:sha256(json(parts)). Parts
// that cannot be encoded, such as NaN floats, yield an error instead of a
// shared key.
func Key(prefix string, parts ...any) (string, error) {
	data, err := json.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	return fmt.Sprintf("%s:%s", prefix, Hash(data)), nil
}

// Hash computes the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Open selects a backend from a location string:
//
//	""                       no caching
//	"redis://host:6379/0"    Redis
//	"file:///var/cache/x"    directory (a bare path works too)
func Open(ctx context.Context, location string) (Cache, error) {
	switch {
	case location == "" || location == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		return NewRedisCache(ctx, RedisConfig{URL: location})
	case strings.HasPrefix(location, "file://"):
		return NewFileCache(strings.TrimPrefix(location, "file://"))
	case strings.Contains(location, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, location)
	default:
		return NewFileCache(location)
	}
}
