package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"shortlink-desk/constant"
)

// LinkCache 短码到原始 URL 的查找缓存，只缓存启用状态的记录。
// 缓存失败不影响业务，实现方自行记录日志。
type LinkCache interface {
	Get(ctx context.Context, shortCode string) (string, bool)
	Set(ctx context.Context, shortCode, originalURL string)
	Delete(ctx context.Context, shortCode string)
}

// Dialer 获取 Redis 连接，*redis.Pool 满足该接口
type Dialer interface {
	GetContext(ctx context.Context) (redis.Conn, error)
}

type redisLinkCache struct {
	pool   Dialer
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisLinkCache pool 为 nil 时返回 NopCache
func NewRedisLinkCache(pool Dialer, ttl time.Duration, logger *zap.Logger) LinkCache {
	if pool == nil {
		return NopCache{}
	}
	if p, ok := pool.(*redis.Pool); ok && p == nil {
		return NopCache{}
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &redisLinkCache{pool: pool, ttl: ttl, logger: logger}
}

func (c *redisLinkCache) conn(ctx context.Context) (redis.Conn, bool) {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		c.logger.Warn("Failed to get Redis connection", zap.Error(err))
		return nil, false
	}
	return conn, true
}

func (c *redisLinkCache) release(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection",
			zap.Error(err),
			zap.String("operation", "close"),
			zap.String("connection_type", "redis"),
		)
	}
}

func (c *redisLinkCache) Get(ctx context.Context, shortCode string) (string, bool) {
	conn, ok := c.conn(ctx)
	if !ok {
		return "", false
	}
	defer c.release(conn)

	cacheKey := constant.GetShortCodeKey(shortCode)
	value, err := redis.String(conn.Do("GET", cacheKey))
	if err != nil {
		if !errors.Is(err, redis.ErrNil) {
			c.logger.Warn("Error getting from Redis",
				zap.String("cache_key", cacheKey),
				zap.Error(err))
		}
		return "", false
	}
	if value == "" {
		return "", false
	}
	return value, true
}

func (c *redisLinkCache) Set(ctx context.Context, shortCode, originalURL string) {
	conn, ok := c.conn(ctx)
	if !ok {
		return
	}
	defer c.release(conn)

	cacheKey := constant.GetShortCodeKey(shortCode)
	if _, err := conn.Do("SET", cacheKey, originalURL, "EX", int64(c.ttl/time.Second)); err != nil {
		c.logger.Error("设置缓存失败",
			zap.String("cache_key", cacheKey),
			zap.Error(err),
		)
	}
}

func (c *redisLinkCache) Delete(ctx context.Context, shortCode string) {
	conn, ok := c.conn(ctx)
	if !ok {
		return
	}
	defer c.release(conn)

	cacheKey := constant.GetShortCodeKey(shortCode)
	if _, err := conn.Do("DEL", cacheKey); err != nil {
		c.logger.Warn("Redis 删除缓存失败",
			zap.String("cache_key", cacheKey),
			zap.Error(err))
	}
}

// NopCache 未配置 Redis 时使用
type NopCache struct{}

func (NopCache) Get(context.Context, string) (string, bool) { return "", false }
func (NopCache) Set(context.Context, string, string)        {}
func (NopCache) Delete(context.Context, string)             {}
