package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryCache - кэш в памяти процесса с TTL на запись.
// Истекшие записи не возвращаются; фоновую очистку запускает Start.
type MemoryCache struct {
	items *ttlcache.Cache[string, []byte]
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: ttlcache.New[string, []byte](
			ttlcache.WithDisableTouchOnHit[string, []byte](),
		),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := c.items.Get(key)
	if item == nil || item.IsExpired() {
		return nil, false, nil
	}
	return append([]byte(nil), item.Value()...), true, nil
}

// Set сохраняет значение; ttl <= 0 означает запись без срока жизни
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	c.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Start удаляет истекшие записи, пока не вызван Stop. Блокирует вызывающего.
func (c *MemoryCache) Start() {
	c.items.Start()
}

func (c *MemoryCache) Stop() {
	c.items.Stop()
}

// Len - число записей, включая еще не вычищенные истекшие
func (c *MemoryCache) Len() int {
	return c.items.Len()
}
