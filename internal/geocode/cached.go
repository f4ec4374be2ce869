package geocode

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"github.com/shareplaces/backend/cache"
)

// CachedResolver 在地理编码提供商前增加一层结果缓存。
// 同一地址在 TTL 内只消耗一次上游配额，解析语义不变。
type CachedResolver struct {
	next  Resolver
	cache cache.Provider
	ttl   time.Duration
}

// NewCachedResolver 创建带缓存的解析器
func NewCachedResolver(next Resolver, cacheProvider cache.Provider, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		next:  next,
		cache: cacheProvider,
		ttl:   ttl,
	}
}

func cacheKey(address string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(address))))
	return "geocode:" + hex.EncodeToString(sum[:16])
}

// Resolve 先查缓存，未命中时调用上游并回写
func (r *CachedResolver) Resolve(ctx context.Context, address string) (*Result, error) {
	key := cacheKey(address)

	var cached Result
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !cache.IsCacheMiss(err) {
		log.Printf("Geocode cache read failed: %v", err)
	}

	result, err := r.next.Resolve(ctx, address)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, result, r.ttl); err != nil {
		log.Printf("Geocode cache write failed: %v", err)
	}

	return result, nil
}
