package usecase

import (
	"context"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
)

type BestPropertiesUseCase struct {
	storage port.PropertyStoragePort
	builder PredicateBuilder
}

func NewBestPropertiesUseCase(storage port.PropertyStoragePort, builder PredicateBuilder) *BestPropertiesUseCase {
	return &BestPropertiesUseCase{storage: storage, builder: builder}
}

// Execute читает рейтинг по районам. Цель сделки выбирает представление,
// поэтому в условия она не добавляется.
func (uc *BestPropertiesUseCase) Execute(ctx context.Context, query domain.BestQuery) (*domain.PaginatedResult[domain.RankedProperty], error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "BestProperties",
		"purpose":  query.Filters.Purpose,
		"city":     query.Filters.City,
		"limit":    query.Limit,
	})
	ucLogger.Info("Use case started", nil)

	filters := query.Filters
	purpose := filters.Purpose
	filters.Purpose = ""

	predicates, err := uc.builder.Build(ctx, filters)
	if err != nil {
		ucLogger.Error("Failed to build predicates", err, nil)
		return nil, fmt.Errorf("best properties: %w", err)
	}

	result, err := uc.storage.FindBest(ctx, purpose, predicates, query.Limit, query.Page)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"total_found": result.Count})
	return result, nil
}
