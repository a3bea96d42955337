package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"property-service/internal/core/domain"
	"property-service/internal/core/filter"
	"property-service/internal/core/port"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type storageMock struct {
	mock.Mock
}

func (m *storageMock) FindPage(ctx context.Context, predicates domain.PredicateSet, page domain.Page, sort []domain.SortSpec) (*domain.PaginatedResult[domain.PropertyCard], error) {
	args := m.Called(ctx, predicates, page, sort)
	result, _ := args.Get(0).(*domain.PaginatedResult[domain.PropertyCard])
	return result, args.Error(1)
}

func (m *storageMock) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	args := m.Called(ctx, id)
	result, _ := args.Get(0).(*domain.Property)
	return result, args.Error(1)
}

func (m *storageMock) CountByType(ctx context.Context, predicates domain.PredicateSet) (map[string]int64, error) {
	args := m.Called(ctx, predicates)
	result, _ := args.Get(0).(map[string]int64)
	return result, args.Error(1)
}

func (m *storageMock) FindBest(ctx context.Context, purpose domain.Purpose, predicates domain.PredicateSet, limit int, page domain.Page) (*domain.PaginatedResult[domain.RankedProperty], error) {
	args := m.Called(ctx, purpose, predicates, limit, page)
	result, _ := args.Get(0).(*domain.PaginatedResult[domain.RankedProperty])
	return result, args.Error(1)
}

type repoMock struct {
	mock.Mock
}

func (m *repoMock) DistinctPropertyTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).([]string)
	return result, args.Error(1)
}

func (m *repoMock) DistinctPurposes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).([]string)
	return result, args.Error(1)
}

func (m *repoMock) FindCityID(ctx context.Context, name string) (int64, bool, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *repoMock) SuggestLocations(ctx context.Context, query domain.SuggestionQuery, limit int) ([]domain.Location, error) {
	args := m.Called(ctx, query, limit)
	result, _ := args.Get(0).([]domain.Location)
	return result, args.Error(1)
}

func (m *repoMock) LocationHierarchy(ctx context.Context) ([]domain.CityLocations, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).([]domain.CityLocations)
	return result, args.Error(1)
}

type trendsMock struct {
	mock.Mock
}

func (m *trendsMock) Fetch(ctx context.Context, kind port.TrendsKind, externalID string) (json.RawMessage, error) {
	args := m.Called(ctx, kind, externalID)
	result, _ := args.Get(0).(json.RawMessage)
	return result, args.Error(1)
}

// staticLookups - справочники с городами islamabad=1 и lahore=3
type staticLookups struct{}

func (staticLookups) PropertyTypes(context.Context) ([]string, error) {
	return []string{"flat", "house"}, nil
}

func (staticLookups) Purposes(context.Context) ([]string, error) {
	return []string{"for_rent", "for_sale"}, nil
}

func (staticLookups) CityID(_ context.Context, name string) (int64, bool, error) {
	switch name {
	case "islamabad":
		return 1, true, nil
	case "lahore":
		return 3, true, nil
	}
	return 0, false, nil
}

func newBuilder(t *testing.T) *filter.Builder {
	t.Helper()
	b, err := filter.NewBuilder(staticLookups{})
	require.NoError(t, err)
	return b
}

func ptr[T any](v T) *T { return &v }

func emptyCards() *domain.PaginatedResult[domain.PropertyCard] {
	return &domain.PaginatedResult[domain.PropertyCard]{Rows: []domain.PropertyCard{}}
}
