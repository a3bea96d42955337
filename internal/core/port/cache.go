package port

import (
	"context"
	"time"
)

// CachePort - простое key/value хранилище с TTL.
// Get возвращает found=false при промахе или истекшем ключе.
type CachePort interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
