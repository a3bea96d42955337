package usecase

import (
	"context"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
)

type SimilarPropertiesUseCase struct {
	storage port.PropertyStoragePort
	builder PredicateBuilder
}

func NewSimilarPropertiesUseCase(storage port.PropertyStoragePort, builder PredicateBuilder) *SimilarPropertiesUseCase {
	return &SimilarPropertiesUseCase{storage: storage, builder: builder}
}

// Execute ищет объекты того же района, типа и цели сделки.
// Если исходного объекта нет, возвращается пустая страница.
func (uc *SimilarPropertiesUseCase) Execute(ctx context.Context, query domain.SimilarQuery) (*domain.PaginatedResult[domain.PropertyCard], error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":    "SimilarProperties",
		"property_id": query.PropertyID,
		"purpose":     query.Purpose,
	})
	ucLogger.Info("Use case started", nil)

	seed, err := uc.storage.GetByID(ctx, query.PropertyID)
	if err != nil {
		ucLogger.Error("Failed to load seed property", err, nil)
		return nil, err
	}
	if seed == nil {
		ucLogger.Info("Seed property not found, returning empty result", nil)
		return &domain.PaginatedResult[domain.PropertyCard]{Rows: []domain.PropertyCard{}}, nil
	}

	predicates := uc.builder.Similar(seed, query.Purpose)
	result, err := uc.storage.FindPage(ctx, predicates, query.Page, domain.DefaultSort)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"total_found": result.Count})
	return result, nil
}
