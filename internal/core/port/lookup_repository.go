package port

import (
	"context"
	"property-service/internal/core/domain"
)

// LookupRepositoryPort - справочные запросы к базе
type LookupRepositoryPort interface {
	DistinctPropertyTypes(ctx context.Context) ([]string, error)
	DistinctPurposes(ctx context.Context) ([]string, error)
	// FindCityID ищет город по имени без учета регистра; found=false, если нет
	FindCityID(ctx context.Context, name string) (id int64, found bool, err error)
	SuggestLocations(ctx context.Context, query domain.SuggestionQuery, limit int) ([]domain.Location, error)
	LocationHierarchy(ctx context.Context) ([]domain.CityLocations, error)
}

// LookupProvider - закэшированные справочники, от которых зависит валидация
type LookupProvider interface {
	PropertyTypes(ctx context.Context) ([]string, error)
	Purposes(ctx context.Context) ([]string, error)
	CityID(ctx context.Context, name string) (id int64, found bool, err error)
}
