package port

import (
	"context"
	"property-service/internal/core/domain"
)

// PropertyStoragePort - чтение объектов недвижимости из хранилища
type PropertyStoragePort interface {
	// FindPage выполняет count и выборку страницы по одному набору условий
	FindPage(ctx context.Context, predicates domain.PredicateSet, page domain.Page, sort []domain.SortSpec) (*domain.PaginatedResult[domain.PropertyCard], error)
	// GetByID возвращает nil без ошибки, если объекта нет
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	CountByType(ctx context.Context, predicates domain.PredicateSet) (map[string]int64, error)
	FindBest(ctx context.Context, purpose domain.Purpose, predicates domain.PredicateSet, limit int, page domain.Page) (*domain.PaginatedResult[domain.RankedProperty], error)
}
