package database

import (
	"context"
	"fmt"

	"storefront-client/config"

	"go.uber.org/zap"
)

// Keys written by the session manager.
const (
	KeyToken              = "token"
	KeyUser               = "user"
	keyProfileImagePrefix = "profile_image_"
	keyCartPrefix         = "cart_"
)

// ProfileImageKey is the per-user key holding the picked avatar URI
func ProfileImageKey(userID int64) string {
	return fmt.Sprintf("%s%d", keyProfileImagePrefix, userID)
}

// CartKey is the per-user key holding a persisted cart snapshot
func CartKey(userID int64) string {
	return fmt.Sprintf("%s%d", keyCartPrefix, userID)
}

// KeyValueStore is durable device-local storage keyed by string.
// Get reports found=false with a nil error when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the store selected by cfg.StoreDriver
func Open(cfg *config.Config, logger *zap.Logger) (KeyValueStore, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("Using in-memory store; session will not survive restarts")
		return NewMemoryStore(), nil
	case config.StoreSQLite:
		return NewSQLiteStore(cfg.StorePath, logger)
	case config.StoreRedis:
		client, err := NewRedisClient(cfg.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.RedisPrefix), nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
