package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/dashboard/internal/domain/identity"
	"github.com/erp/dashboard/internal/domain/procurement"
	"github.com/erp/dashboard/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DecisionTTL bounds how long an unconfirmed procurement decision is kept
const DecisionTTL = 30 * 24 * time.Hour

// Stores are the per-identity stores used by the dashboard
type Stores struct {
	Preferences identity.PreferenceStore
	Decisions   procurement.DecisionStore
	// Client is the shared Redis client, nil when running in memory
	Client *redis.Client

	closers []func() error
}

// Close releases the stores and the Redis client
func (s *Stores) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Factory creates stores based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	preferenceTTL         time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// WithPreferenceTTL sets how long a stored preference lives; usually the session TTL
func WithPreferenceTTL(ttl time.Duration) FactoryOption {
	return func(f *Factory) {
		f.preferenceTTL = ttl
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRedisClient connects to Redis and pings it
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// CreateInMemoryStores creates process-local stores.
// WARNING: state is not shared between instances and is lost on restart.
func (f *Factory) CreateInMemoryStores() *Stores {
	prefs := NewInMemoryPreferenceStore(f.preferenceTTL)
	decisions := NewInMemoryDecisionStore(DecisionTTL)
	return &Stores{
		Preferences: prefs,
		Decisions:   decisions,
		closers:     []func() error{prefs.Close, decisions.Close},
	}
}

// CreateRedisStores creates Redis-backed stores sharing one client
func (f *Factory) CreateRedisStores(ctx context.Context) (*Stores, error) {
	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Preferences: NewRedisPreferenceStore(client, f.preferenceTTL),
		Decisions:   NewRedisDecisionStore(client, DecisionTTL),
		Client:      client,
		closers:     []func() error{client.Close},
	}, nil
}

// CreateStores uses Redis when enabled, falling back to memory if Redis is
// unreachable and fallback is allowed
func (f *Factory) CreateStores(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory stores")
		return f.CreateInMemoryStores(), nil
	}

	stores, err := f.CreateRedisStores(ctx)
	if err == nil {
		f.logger.Info("using Redis stores", zap.String("addr", f.redisConfig.Addr()))
		return stores, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
		"Preferences and procurement decisions will not be shared between instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStores(), nil
}
