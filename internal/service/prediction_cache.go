package service

import (
	"context"
	"time"

	"predict_earn_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
)

const predictionListingKey = "predictions:listing"

// ListingCache 公共竞猜列表的读穿缓存。竞猜结案时必须同步失效，
// 保证下一次读取就能看到新状态
type ListingCache interface {
	Get(ctx context.Context) ([]byte, bool)
	Set(ctx context.Context, data []byte)
	Invalidate(ctx context.Context)
}

// PredictionCache Redis 实现，固定 TTL
type PredictionCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewPredictionCache(rdb *redis.Client, ttl time.Duration) *PredictionCache {
	return &PredictionCache{Redis: rdb, TTL: ttl}
}

func (c *PredictionCache) Get(ctx context.Context) ([]byte, bool) {
	val, err := c.Redis.Get(ctx, predictionListingKey).Bytes()
	if err != nil {
		monitoring.PredictionCacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}
	monitoring.PredictionCacheHits.WithLabelValues("hit").Inc()
	return val, true
}

// Set 写入失败只影响下次命中率，不影响正确性，错误直接吞掉
func (c *PredictionCache) Set(ctx context.Context, data []byte) {
	c.Redis.Set(ctx, predictionListingKey, data, c.TTL)
}

func (c *PredictionCache) Invalidate(ctx context.Context) {
	c.Redis.Del(ctx, predictionListingKey)
}
