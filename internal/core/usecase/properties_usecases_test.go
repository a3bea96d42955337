package usecase

import (
	"context"
	"errors"
	"testing"

	"property-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFindProperties(t *testing.T) {
	storage := new(storageMock)
	uc := NewFindPropertiesUseCase(storage, newBuilder(t))

	query := domain.ListQuery{
		Filters: domain.FilterParams{Purpose: domain.PurposeForSale, City: "lahore"},
		Page:    domain.Page{Size: 10, Number: 2},
		Sort:    domain.DefaultSort,
	}
	want := &domain.PaginatedResult[domain.PropertyCard]{Rows: []domain.PropertyCard{{ID: 1}}, Count: 11}

	storage.On("FindPage", mock.Anything, mock.MatchedBy(func(set domain.PredicateSet) bool {
		return set.Has(domain.ColumnPrice) && set.Has(domain.ColumnPurpose) && set.Has(domain.ColumnCityID)
	}), query.Page, query.Sort).Return(want, nil)

	got, err := uc.Execute(context.Background(), query)

	require.NoError(t, err)
	assert.Same(t, want, got)
	storage.AssertExpectations(t)
}

func TestFindProperties_UnknownCityPassesUnsatisfiableSet(t *testing.T) {
	storage := new(storageMock)
	uc := NewFindPropertiesUseCase(storage, newBuilder(t))

	storage.On("FindPage", mock.Anything, mock.MatchedBy(func(set domain.PredicateSet) bool {
		return set.Unsatisfiable
	}), mock.Anything, mock.Anything).Return(emptyCards(), nil)

	got, err := uc.Execute(context.Background(), domain.ListQuery{Filters: domain.FilterParams{City: "karachi"}})

	require.NoError(t, err)
	assert.Empty(t, got.Rows)
	storage.AssertExpectations(t)
}

func TestFindProperties_StorageError(t *testing.T) {
	storage := new(storageMock)
	uc := NewFindPropertiesUseCase(storage, newBuilder(t))
	storage.On("FindPage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := uc.Execute(context.Background(), domain.ListQuery{})

	assert.ErrorContains(t, err, "db down")
}

func TestFeaturedProperties_UsesThresholdAndPriceSort(t *testing.T) {
	storage := new(storageMock)
	uc := NewFeaturedPropertiesUseCase(storage, newBuilder(t), 50_000_000)
	page := domain.Page{Size: 5, Number: 1}

	storage.On("FindPage", mock.Anything, mock.MatchedBy(func(set domain.PredicateSet) bool {
		for _, p := range set.Predicates {
			if r, ok := p.(domain.RangeFilter); ok && r.Column == domain.ColumnPrice && r.Min == 50_000_000.0 {
				return true
			}
		}
		return false
	}), page, []domain.SortSpec{{Column: domain.SortByPrice, Direction: domain.SortAsc}}).Return(emptyCards(), nil)

	_, err := uc.Execute(context.Background(), domain.PurposeForRent, page)

	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestSimilarProperties(t *testing.T) {
	storage := new(storageMock)
	uc := NewSimilarPropertiesUseCase(storage, newBuilder(t))

	seed := &domain.Property{PropertyCard: domain.PropertyCard{ID: 7, Type: ptr("house")}, LocationID: ptr(int64(12))}
	storage.On("GetByID", mock.Anything, int64(7)).Return(seed, nil)
	storage.On("FindPage", mock.Anything, mock.MatchedBy(func(set domain.PredicateSet) bool {
		return set.Has(domain.ColumnLocationID) && set.Has(domain.ColumnType) && set.Has(domain.ColumnID)
	}), domain.Page{Size: 4, Number: 1}, domain.DefaultSort).Return(emptyCards(), nil)

	_, err := uc.Execute(context.Background(), domain.SimilarQuery{PropertyID: 7, Purpose: domain.PurposeForSale, Page: domain.Page{Size: 4, Number: 1}})

	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestSimilarProperties_UnknownSeed(t *testing.T) {
	storage := new(storageMock)
	uc := NewSimilarPropertiesUseCase(storage, newBuilder(t))
	storage.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

	got, err := uc.Execute(context.Background(), domain.SimilarQuery{PropertyID: 404})

	require.NoError(t, err)
	assert.Empty(t, got.Rows)
	assert.Zero(t, got.Count)
	storage.AssertNotCalled(t, "FindPage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCountByType_IgnoresTypeFilter(t *testing.T) {
	storage := new(storageMock)
	uc := NewCountByTypeUseCase(storage, newBuilder(t))
	counts := map[string]int64{"house": 3, "flat": 1}

	storage.On("CountByType", mock.Anything, mock.MatchedBy(func(set domain.PredicateSet) bool {
		return !set.Has(domain.ColumnType) && set.Has(domain.ColumnBedroom)
	})).Return(counts, nil)

	got, err := uc.Execute(context.Background(), domain.FilterParams{PropertyTypes: []string{"house"}, Bedrooms: []int{2}})

	require.NoError(t, err)
	assert.Equal(t, counts, got)
	storage.AssertExpectations(t)
}

func TestBestProperties_PurposeSelectsViewNotPredicate(t *testing.T) {
	storage := new(storageMock)
	uc := NewBestPropertiesUseCase(storage, newBuilder(t))
	query := domain.BestQuery{
		Filters: domain.FilterParams{Purpose: domain.PurposeForRent, City: "islamabad"},
		Page:    domain.Page{Size: 10, Number: 1},
		Limit:   3,
	}
	want := &domain.PaginatedResult[domain.RankedProperty]{Rows: []domain.RankedProperty{{Rank: 1}}, Count: 1}

	storage.On("FindBest", mock.Anything, domain.PurposeForRent, mock.MatchedBy(func(set domain.PredicateSet) bool {
		return !set.Has(domain.ColumnPurpose) && set.Has(domain.ColumnCityID)
	}), 3, query.Page).Return(want, nil)

	got, err := uc.Execute(context.Background(), query)

	require.NoError(t, err)
	assert.Same(t, want, got)
	storage.AssertExpectations(t)
}
