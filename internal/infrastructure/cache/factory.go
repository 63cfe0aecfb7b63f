package cache

import (
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/config"
)

// New creates a cache based on configuration. It tries Redis first and
// falls back to the in-memory implementation when Redis is unreachable,
// logging the downgrade.
func New(cfg config.RedisConfig, logger *zap.Logger) Cache {
	redisCache, err := NewRedisCache(cfg)
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-memory cache",
			zap.String("addr", cfg.Addr()),
			zap.Error(err))
		return NewMemoryCache()
	}
	logger.Info("connected to redis cache", zap.String("addr", cfg.Addr()))
	return redisCache
}
