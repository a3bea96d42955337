package usecase

import (
	"context"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
)

// FindPropertiesUseCase обслуживает и простой список, и расширенный поиск:
// они отличаются только набором заполненных фильтров
type FindPropertiesUseCase struct {
	storage port.PropertyStoragePort
	builder PredicateBuilder
}

func NewFindPropertiesUseCase(storage port.PropertyStoragePort, builder PredicateBuilder) *FindPropertiesUseCase {
	return &FindPropertiesUseCase{storage: storage, builder: builder}
}

func (uc *FindPropertiesUseCase) Execute(ctx context.Context, query domain.ListQuery) (*domain.PaginatedResult[domain.PropertyCard], error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "FindProperties",
		"city":        query.Filters.City,
		"purpose":     query.Filters.Purpose,
		"page_size":   query.Page.Size,
		"page_number": query.Page.Number,
	})

	ucLogger.Info("Use case started", nil)

	predicates, err := uc.builder.Build(ctx, query.Filters)
	if err != nil {
		ucLogger.Error("Failed to build predicates", err, nil)
		return nil, fmt.Errorf("find properties: %w", err)
	}

	result, err := uc.storage.FindPage(ctx, predicates, query.Page, query.Sort)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.Count,
		"items_on_page": len(result.Rows),
	})
	return result, nil
}
