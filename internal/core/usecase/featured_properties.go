package usecase

import (
	"context"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
)

// FeaturedPropertiesUseCase - объекты дороже порога, самые дешевые из них первыми
type FeaturedPropertiesUseCase struct {
	storage        port.PropertyStoragePort
	builder        PredicateBuilder
	priceThreshold float64
}

func NewFeaturedPropertiesUseCase(storage port.PropertyStoragePort, builder PredicateBuilder, priceThreshold float64) *FeaturedPropertiesUseCase {
	return &FeaturedPropertiesUseCase{storage: storage, builder: builder, priceThreshold: priceThreshold}
}

func (uc *FeaturedPropertiesUseCase) Execute(ctx context.Context, purpose domain.Purpose, page domain.Page) (*domain.PaginatedResult[domain.PropertyCard], error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "FeaturedProperties",
		"purpose":   purpose,
		"threshold": uc.priceThreshold,
	})
	ucLogger.Info("Use case started", nil)

	threshold := uc.priceThreshold
	predicates, err := uc.builder.Build(ctx, domain.FilterParams{Purpose: purpose, PriceMin: &threshold})
	if err != nil {
		ucLogger.Error("Failed to build predicates", err, nil)
		return nil, fmt.Errorf("featured properties: %w", err)
	}

	sort := []domain.SortSpec{{Column: domain.SortByPrice, Direction: domain.SortAsc}}
	result, err := uc.storage.FindPage(ctx, predicates, page, sort)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"total_found": result.Count})
	return result, nil
}
