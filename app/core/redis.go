package core

import (
	"context"
	"time"

	"github.com/go-redis/redis/v9"
)

func secondsOr(v int, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return time.Duration(v) * time.Second
}

// MustSetupRedis 根据配置创建单机或集群客户端，连接失败直接 panic
func MustSetupRedis(cfg RedisConfig) redis.UniversalClient {
	var client redis.UniversalClient
	if cfg.Cluster && len(cfg.ClusterAddrs) > 0 {
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        cfg.ClusterAddrs,
			Password:     cfg.Password,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  secondsOr(cfg.DialTimeout, 5*time.Second),
			ReadTimeout:  secondsOr(cfg.ReadTimeout, 3*time.Second),
			WriteTimeout: secondsOr(cfg.WriteTimeout, 3*time.Second),
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  secondsOr(cfg.DialTimeout, 5*time.Second),
			ReadTimeout:  secondsOr(cfg.ReadTimeout, 3*time.Second),
			WriteTimeout: secondsOr(cfg.WriteTimeout, 3*time.Second),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(err)
	}
	return client
}

// RedisKey 统一加上配置的前缀
func (s *Core) RedisKey(key string) string {
	return s.cfg.Redis.KeyPrefix + key
}

func NewRedisCache(client redis.UniversalClient, prefix string) *Cache {
	return &Cache{
		redis:  client,
		prefix: prefix,
	}
}

// Cache 基于 redis 的 types.Cache 实现
type Cache struct {
	redis  redis.UniversalClient
	prefix string
}

func (c *Cache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return c.redis.Expire(ctx, c.prefix+key, expiration).Err()
}

func (c *Cache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	return c.redis.SetEx(ctx, c.prefix+key, value, expiresAt).Err()
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.redis.Get(ctx, c.prefix+key).Result()
}
