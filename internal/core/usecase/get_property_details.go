package usecase

import (
	"context"
	"encoding/json"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// enrichmentKinds - внешние запросы, которыми дополняется карточка объекта
var enrichmentKinds = []port.TrendsKind{port.TrendsPopularity, port.TrendsArea, port.TrendsContact}

// GetPropertyDetailsUseCase загружает объект и параллельно запрашивает тренды и контакты.
// Ошибка любого внешнего запроса превращается в null и не ломает ответ.
type GetPropertyDetailsUseCase struct {
	storage     port.PropertyStoragePort
	trends      port.TrendsClientPort
	sem         *semaphore.Weighted
	callTimeout time.Duration
}

// NewGetPropertyDetailsUseCase: concurrency ограничивает число одновременных
// внешних запросов на весь сервис, callTimeout - время одного запроса
func NewGetPropertyDetailsUseCase(storage port.PropertyStoragePort, trends port.TrendsClientPort, concurrency int64, callTimeout time.Duration) *GetPropertyDetailsUseCase {
	if concurrency <= 0 {
		concurrency = int64(len(enrichmentKinds))
	}
	return &GetPropertyDetailsUseCase{
		storage:     storage,
		trends:      trends,
		sem:         semaphore.NewWeighted(concurrency),
		callTimeout: callTimeout,
	}
}

func (uc *GetPropertyDetailsUseCase) Execute(ctx context.Context, id int64) ([]domain.PropertyDetails, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "GetPropertyDetails",
		"property_id": id,
	})
	ucLogger.Info("Use case started", nil)

	prop, err := uc.storage.GetByID(ctx, id)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	if prop == nil {
		ucLogger.Info("Property not found, returning empty list", nil)
		return []domain.PropertyDetails{}, nil
	}

	details := uc.enrich(ctx, ucLogger, prop)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"external_id":         details.ExternalID,
		"popularity_resolved": details.PopularityTrends != nil,
		"area_resolved":       details.AreaTrends != nil,
		"contact_resolved":    details.Contact != nil,
	})
	return []domain.PropertyDetails{details}, nil
}

func (uc *GetPropertyDetailsUseCase) enrich(ctx context.Context, logger port.LoggerPort, prop *domain.Property) domain.PropertyDetails {
	details := domain.PropertyDetails{
		Property:   *prop,
		ExternalID: domain.ExternalIDFromURL(prop.URL),
	}
	if details.ExternalID == "" {
		logger.Warn("Could not derive external id from url, skipping enrichment", port.Fields{"url": prop.URL})
		return details
	}

	results := make([]json.RawMessage, len(enrichmentKinds))
	var wg sync.WaitGroup
	for i, kind := range enrichmentKinds {
		wg.Add(1)
		go func(i int, kind port.TrendsKind) {
			defer wg.Done()
			results[i] = uc.fetch(ctx, logger, kind, details.ExternalID)
		}(i, kind)
	}
	wg.Wait()

	details.PopularityTrends = results[0]
	details.AreaTrends = results[1]
	details.Contact = results[2]
	return details
}

// fetch возвращает nil при любой ошибке, включая ожидание семафора
func (uc *GetPropertyDetailsUseCase) fetch(ctx context.Context, logger port.LoggerPort, kind port.TrendsKind, externalID string) json.RawMessage {
	if err := uc.sem.Acquire(ctx, 1); err != nil {
		logger.Warn("Enrichment skipped, context done while waiting for slot", port.Fields{"kind": kind})
		return nil
	}
	defer uc.sem.Release(1)

	callCtx := ctx
	if uc.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, uc.callTimeout)
		defer cancel()
	}

	body, err := uc.trends.Fetch(callCtx, kind, externalID)
	if err != nil {
		logger.Warn("Enrichment call failed, field set to null", port.Fields{"kind": kind, "error": err.Error()})
		return nil
	}
	return body
}
