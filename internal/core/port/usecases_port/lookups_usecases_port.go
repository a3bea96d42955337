package usecases_port

import (
	"context"
	"property-service/internal/core/domain"
)

type SuggestLocationsUseCase interface {
	Execute(ctx context.Context, query domain.SuggestionQuery) ([]domain.Location, error)
}

type LocationHierarchyUseCase interface {
	Execute(ctx context.Context) ([]domain.CityLocations, error)
}

type GetDictionariesUseCase interface {
	Execute(ctx context.Context, names []string) (map[string][]domain.DictionaryItem, error)
}
