package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"pantry-chef/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "pantry-chef:"

// RedisStore 以 Redis 作為共享快取後端
type RedisStore struct {
	client *redis.Client
	config *config.CacheConfig
	hits   atomic.Int64
	misses atomic.Int64
	errors atomic.Int64
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore 創建 Redis 快取並測試連線
func NewRedisStore(ctx context.Context, cfg *config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, cfg), nil
}

// NewRedisStoreWithClient 使用既有的 Redis 客戶端
func NewRedisStoreWithClient(client *redis.Client, cfg *config.CacheConfig) *RedisStore {
	return &RedisStore{
		client: client,
		config: cfg,
	}
}

// Name 後端名稱
func (s *RedisStore) Name() string {
	return config.CacheBackendRedis
}

// Get 獲取快取
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.misses.Add(1)
			return "", false, nil
		}
		s.errors.Add(1)
		return "", false, fmt.Errorf("failed to get cache: %w", err)
	}
	s.hits.Add(1)
	return val, true, nil
}

// Set 設置快取
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, s.config.TTL).Err(); err != nil {
		s.errors.Add(1)
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Stats 統計資訊
func (s *RedisStore) Stats() map[string]interface{} {
	return map[string]interface{}{
		"backend": s.Name(),
		"addr":    s.config.RedisAddr,
		"hits":    s.hits.Load(),
		"misses":  s.misses.Load(),
		"errors":  s.errors.Load(),
	}
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// New 依設定建立快取後端；未啟用時回傳 nil
func New(ctx context.Context, cfg *config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case config.CacheBackendRedis:
		s, err := NewRedisStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.CacheBackendMemory, "":
		return NewManager(cfg), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
