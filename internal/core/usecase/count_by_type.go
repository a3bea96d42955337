package usecase

import (
	"context"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
)

// CountByTypeUseCase считает объекты по типам с фильтрами поиска.
// Фильтр по типу игнорируется, иначе счетчики остальных типов обнулятся.
type CountByTypeUseCase struct {
	storage port.PropertyStoragePort
	builder PredicateBuilder
}

func NewCountByTypeUseCase(storage port.PropertyStoragePort, builder PredicateBuilder) *CountByTypeUseCase {
	return &CountByTypeUseCase{storage: storage, builder: builder}
}

func (uc *CountByTypeUseCase) Execute(ctx context.Context, filters domain.FilterParams) (map[string]int64, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "CountByType",
		"city":     filters.City,
	})
	ucLogger.Info("Use case started", nil)

	predicates, err := uc.builder.Build(ctx, filters.WithoutPropertyTypes())
	if err != nil {
		ucLogger.Error("Failed to build predicates", err, nil)
		return nil, fmt.Errorf("count by type: %w", err)
	}

	counts, err := uc.storage.CountByType(ctx, predicates)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"types": len(counts)})
	return counts, nil
}
