package usecase

import (
	"context"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
)

type LocationHierarchyUseCase struct {
	repo port.LookupRepositoryPort
}

func NewLocationHierarchyUseCase(repo port.LookupRepositoryPort) *LocationHierarchyUseCase {
	return &LocationHierarchyUseCase{repo: repo}
}

func (uc *LocationHierarchyUseCase) Execute(ctx context.Context) ([]domain.CityLocations, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "LocationHierarchy",
	})
	ucLogger.Info("Use case started", nil)

	hierarchy, err := uc.repo.LocationHierarchy(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"cities": len(hierarchy)})
	return hierarchy, nil
}
