package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds Redis connection settings.
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	Enabled      bool
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Client wraps the go-redis client. When disabled the wrapper carries no
// connection and callers degrade gracefully (throttling is skipped).
type Client struct {
	rdb     *redis.Client
	enabled bool
	logger  *zap.Logger
}

// NewClient connects to Redis, or returns a disabled no-op wrapper when the
// configuration turns Redis off or the server is unreachable.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if !cfg.Enabled {
		logger.Info("Redis disabled by configuration")
		return &Client{enabled: false, logger: logger}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Failed to connect to Redis, continuing without it",
			zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
			zap.Error(err),
		)
		_ = rdb.Close()
		return &Client{enabled: false, logger: logger}
	}

	logger.Info("Successfully connected to Redis",
		zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("database", cfg.DB),
	)

	return &Client{rdb: rdb, enabled: true, logger: logger}
}

// NewClientFromRedis wraps an already constructed go-redis client. Used by
// tests running against an embedded server.
func NewClientFromRedis(rdb *redis.Client, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, enabled: true, logger: logger}
}

// IsEnabled reports whether a live connection is held.
func (c *Client) IsEnabled() bool {
	return c.enabled
}

// Redis exposes the underlying client for command access.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Ping verifies connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if !c.enabled {
		return fmt.Errorf("redis disabled")
	}
	return c.rdb.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if !c.enabled || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
