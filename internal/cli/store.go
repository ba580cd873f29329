package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/intake/pkg/adapters/file"
	"github.com/aretw0/intake/pkg/adapters/redis"
	"github.com/aretw0/intake/pkg/persistence/middleware"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/session"
)

// OpenSessions builds the session manager described by cfg: Redis with a
// distributed lock when an address is configured, JSON files otherwise.
// With an encryption key the store only ever sees sealed envelopes.
// The returned close function releases the backend connection.
func OpenSessions(ctx context.Context, cfg Config, logger *slog.Logger) (*session.Manager, func() error, error) {
	var store ports.StateStore
	opts := []session.Option{session.WithLogger(logger)}
	closeFn := func() error { return nil }

	if cfg.RedisAddr != "" {
		var redisOpts []redis.Option
		if cfg.SessionTTL > 0 {
			redisOpts = append(redisOpts, redis.WithTTL(cfg.SessionTTL))
		}
		rs := redis.New(cfg.RedisAddr, cfg.RedisPassword, 0, redisOpts...)
		if err := rs.Client().Ping(ctx).Err(); err != nil {
			_ = rs.Client().Close()
			return nil, nil, fmt.Errorf("redis unreachable at %s: %w", cfg.RedisAddr, err)
		}
		store = rs
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), redis.DefaultPrefix)))
		closeFn = rs.Client().Close
		logger.Debug("using redis session store", "addr", cfg.RedisAddr)
	} else {
		store = file.New(cfg.sessionDir())
		logger.Debug("using file session store", "dir", cfg.sessionDir())
	}

	if cfg.EncryptionKey != "" {
		enc, err := encryption(cfg)
		if err != nil {
			_ = closeFn()
			return nil, nil, err
		}
		store = middleware.Chain(store, enc)
	}

	return session.NewManager(store, opts...), closeFn, nil
}

func encryption(cfg Config) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}
	config := middleware.EncryptionConfig{ActiveKey: active}
	for i, raw := range cfg.EncryptionFallbackKeys {
		key, err := middleware.ParseKey(raw)
		if err != nil {
			return nil, fmt.Errorf("fallback key %d: %w", i+1, err)
		}
		config.FallbackKeys = append(config.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(config), nil
}
