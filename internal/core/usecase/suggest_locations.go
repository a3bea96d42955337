package usecase

import (
	"context"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
)

// SuggestionsLimit - максимум подсказок в ответе автодополнения
const SuggestionsLimit = 10

type SuggestLocationsUseCase struct {
	repo port.LookupRepositoryPort
}

func NewSuggestLocationsUseCase(repo port.LookupRepositoryPort) *SuggestLocationsUseCase {
	return &SuggestLocationsUseCase{repo: repo}
}

func (uc *SuggestLocationsUseCase) Execute(ctx context.Context, query domain.SuggestionQuery) ([]domain.Location, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SuggestLocations",
		"search":   query.Search,
		"city":     query.City,
	})
	ucLogger.Info("Use case started", nil)

	locations, err := uc.repo.SuggestLocations(ctx, query, SuggestionsLimit)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	if len(locations) > SuggestionsLimit {
		locations = locations[:SuggestionsLimit]
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"found": len(locations)})
	return locations, nil
}
