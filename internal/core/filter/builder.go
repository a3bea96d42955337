package filter

import (
	"context"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
)

// Builder переводит провалидированные параметры в набор условий,
// не зависящий от конкретного хранилища
type Builder struct {
	lookups port.LookupProvider
}

func NewBuilder(lookups port.LookupProvider) (*Builder, error) {
	if lookups == nil {
		return nil, fmt.Errorf("filter builder: lookup provider cannot be nil")
	}
	return &Builder{lookups: lookups}, nil
}

// baseline - условие price > 0, которое есть в любом запросе по объектам
func baseline() domain.PredicateSet {
	return domain.PredicateSet{}.With(domain.RangeFilter{
		Column:       domain.ColumnPrice,
		Min:          0.0,
		ExclusiveMin: true,
	})
}

// Build собирает условия для списка, поиска, подсчета и рейтинга.
// Неизвестный город дает Unsatisfiable набор, а не ошибку.
func (b *Builder) Build(ctx context.Context, f domain.FilterParams) (domain.PredicateSet, error) {
	set := baseline()

	if f.Purpose != "" {
		set = set.With(domain.EqualityFilter{Column: domain.ColumnPurpose, Value: string(f.Purpose)})
	}

	if len(f.PropertyTypes) > 0 {
		set = set.With(domain.SetFilter{Column: domain.ColumnType, Values: f.PropertyTypes})
	}
	if len(f.LocationIDs) > 0 {
		set = set.With(domain.SetFilter{Column: domain.ColumnLocationID, Values: f.LocationIDs})
	}
	if len(f.LocationTerms) > 0 {
		set = set.With(domain.TextSimilarityFilter{Column: domain.ColumnLocationName, Terms: f.LocationTerms})
	}

	if f.AreaMin != nil || f.AreaMax != nil {
		set = set.With(domain.RangeFilter{Column: domain.ColumnArea, Min: floatBound(f.AreaMin), Max: floatBound(f.AreaMax)})
	}
	if f.PriceMin != nil || f.PriceMax != nil {
		set = set.With(domain.RangeFilter{Column: domain.ColumnPrice, Min: floatBound(f.PriceMin), Max: floatBound(f.PriceMax)})
	}
	if len(f.Bedrooms) > 0 {
		set = set.With(domain.SetFilter{Column: domain.ColumnBedroom, Values: f.Bedrooms})
	}
	if f.StartDate != nil || f.EndDate != nil {
		rng := domain.RangeFilter{Column: domain.ColumnAdded}
		if f.StartDate != nil {
			rng.Min = *f.StartDate
		}
		if f.EndDate != nil {
			rng.Max = *f.EndDate
		}
		set = set.With(rng)
	}
	if f.PostedByAgency != nil {
		set = set.With(domain.EqualityFilter{Column: domain.ColumnPostedByAgency, Value: *f.PostedByAgency})
	}

	if f.City != "" {
		cityID, found, err := b.lookups.CityID(ctx, f.City)
		if err != nil {
			return domain.PredicateSet{}, fmt.Errorf("failed to resolve city %q: %w", f.City, err)
		}
		if !found {
			contextkeys.LoggerFromContext(ctx).Debug("City not found, result will be empty", port.Fields{"city": f.City})
			set.Unsatisfiable = true
		} else {
			set = set.With(domain.EqualityFilter{Column: domain.ColumnCityID, Value: cityID})
		}
	}

	return set, nil
}

// Similar строит условия "тот же район и тип, та же цель, кроме самого объекта"
func (b *Builder) Similar(seed *domain.Property, purpose domain.Purpose) domain.PredicateSet {
	set := baseline().
		With(domain.EqualityFilter{Column: domain.ColumnPurpose, Value: string(purpose)}).
		With(domain.ExclusionFilter{Column: domain.ColumnID, Value: seed.ID})

	if seed.LocationID != nil {
		set = set.With(domain.EqualityFilter{Column: domain.ColumnLocationID, Value: *seed.LocationID})
	}
	if seed.Type != nil {
		set = set.With(domain.EqualityFilter{Column: domain.ColumnType, Value: *seed.Type})
	}
	return set
}

// floatBound возвращает nil для незаданной границы, чтобы в интерфейс не попал типизированный nil
func floatBound(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
