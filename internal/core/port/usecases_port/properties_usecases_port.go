package usecases_port

import (
	"context"
	"property-service/internal/core/domain"
)

type FindPropertiesUseCase interface {
	Execute(ctx context.Context, query domain.ListQuery) (*domain.PaginatedResult[domain.PropertyCard], error)
}

type FeaturedPropertiesUseCase interface {
	Execute(ctx context.Context, purpose domain.Purpose, page domain.Page) (*domain.PaginatedResult[domain.PropertyCard], error)
}

type SimilarPropertiesUseCase interface {
	Execute(ctx context.Context, query domain.SimilarQuery) (*domain.PaginatedResult[domain.PropertyCard], error)
}

type GetPropertyDetailsUseCase interface {
	Execute(ctx context.Context, id int64) ([]domain.PropertyDetails, error)
}

type CountByTypeUseCase interface {
	Execute(ctx context.Context, filters domain.FilterParams) (map[string]int64, error)
}

type BestPropertiesUseCase interface {
	Execute(ctx context.Context, query domain.BestQuery) (*domain.PaginatedResult[domain.RankedProperty], error)
}
