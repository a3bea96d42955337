package usecase

import (
	"context"
	"property-service/internal/core/domain"
)

// PredicateBuilder - построитель условий, которым пользуются сценарии поиска
type PredicateBuilder interface {
	Build(ctx context.Context, f domain.FilterParams) (domain.PredicateSet, error)
	Similar(seed *domain.Property, purpose domain.Purpose) domain.PredicateSet
}
