package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/port"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	cacheKeyPropertyTypes = "lookups:property_types"
	cacheKeyPurposes      = "lookups:purposes"
	cacheKeyCityPrefix    = "lookups:city:"

	// lookupLoadTimeout ограничивает загрузку, общую для всех ждущих запросов
	lookupLoadTimeout = 10 * time.Second
)

type cachedCity struct {
	ID    int64 `json:"id"`
	Found bool  `json:"found"`
}

// CachedLookups реализует LookupProvider поверх репозитория со сквозным кэшем.
// Одновременные промахи по одному ключу сводятся к одному запросу в базу.
type CachedLookups struct {
	repo  port.LookupRepositoryPort
	cache port.CachePort
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedLookups(repo port.LookupRepositoryPort, cache port.CachePort, ttl time.Duration) (*CachedLookups, error) {
	if repo == nil {
		return nil, fmt.Errorf("cached lookups: repository cannot be nil")
	}
	if cache == nil {
		return nil, fmt.Errorf("cached lookups: cache cannot be nil")
	}
	return &CachedLookups{repo: repo, cache: cache, ttl: ttl}, nil
}

func (c *CachedLookups) PropertyTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := c.readThrough(ctx, cacheKeyPropertyTypes, &types, func(ctx context.Context) (interface{}, error) {
		return c.repo.DistinctPropertyTypes(ctx)
	})
	return types, err
}

func (c *CachedLookups) Purposes(ctx context.Context) ([]string, error) {
	var purposes []string
	err := c.readThrough(ctx, cacheKeyPurposes, &purposes, func(ctx context.Context) (interface{}, error) {
		return c.repo.DistinctPurposes(ctx)
	})
	return purposes, err
}

// CityID кэширует и отрицательный ответ, чтобы неизвестный город не ходил в базу каждый раз
func (c *CachedLookups) CityID(ctx context.Context, name string) (int64, bool, error) {
	key := cacheKeyCityPrefix + strings.ToLower(strings.TrimSpace(name))
	var city cachedCity
	err := c.readThrough(ctx, key, &city, func(ctx context.Context) (interface{}, error) {
		id, found, err := c.repo.FindCityID(ctx, name)
		if err != nil {
			return nil, err
		}
		return cachedCity{ID: id, Found: found}, nil
	})
	if err != nil {
		return 0, false, err
	}
	return city.ID, city.Found, nil
}

// readThrough: кэш -> singleflight -> загрузчик -> кэш.
// Ошибки кэша только логируются, источником истины остается база.
func (c *CachedLookups) readThrough(ctx context.Context, key string, dest interface{}, load func(context.Context) (interface{}, error)) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CachedLookups",
		"cache_key": key,
	})

	if raw, found, err := c.cache.Get(ctx, key); err != nil {
		logger.Warn("Cache read failed, falling back to storage", port.Fields{"error": err.Error()})
	} else if found {
		if err := json.Unmarshal(raw, dest); err == nil {
			return nil
		}
		logger.Warn("Cached value is corrupted, reloading", nil)
	}

	raw, err, shared := c.group.Do(key, func() (interface{}, error) {
		// отмена первого запроса не должна ронять остальных ожидающих
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupLoadTimeout)
		defer cancel()

		value, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		if err := c.cache.Set(loadCtx, key, encoded, c.ttl); err != nil {
			logger.Warn("Cache write failed", port.Fields{"error": err.Error()})
		}
		return encoded, nil
	})
	if err != nil {
		logger.Error("Failed to load lookup", err, nil)
		return fmt.Errorf("lookup %s: %w", key, err)
	}

	logger.Debug("Lookup loaded from storage", port.Fields{"shared": shared})
	return json.Unmarshal(raw.([]byte), dest)
}
