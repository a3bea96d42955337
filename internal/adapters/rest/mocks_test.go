package rest

import (
	"context"
	"errors"
	"net/http"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"property-service/internal/core/validation"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type findMock struct{ mock.Mock }

func (m *findMock) Execute(ctx context.Context, query domain.ListQuery) (*domain.PaginatedResult[domain.PropertyCard], error) {
	args := m.Called(ctx, query)
	result, _ := args.Get(0).(*domain.PaginatedResult[domain.PropertyCard])
	return result, args.Error(1)
}

type featuredMock struct{ mock.Mock }

func (m *featuredMock) Execute(ctx context.Context, purpose domain.Purpose, page domain.Page) (*domain.PaginatedResult[domain.PropertyCard], error) {
	args := m.Called(ctx, purpose, page)
	result, _ := args.Get(0).(*domain.PaginatedResult[domain.PropertyCard])
	return result, args.Error(1)
}

type similarMock struct{ mock.Mock }

func (m *similarMock) Execute(ctx context.Context, query domain.SimilarQuery) (*domain.PaginatedResult[domain.PropertyCard], error) {
	args := m.Called(ctx, query)
	result, _ := args.Get(0).(*domain.PaginatedResult[domain.PropertyCard])
	return result, args.Error(1)
}

type detailsMock struct{ mock.Mock }

func (m *detailsMock) Execute(ctx context.Context, id int64) ([]domain.PropertyDetails, error) {
	args := m.Called(ctx, id)
	result, _ := args.Get(0).([]domain.PropertyDetails)
	return result, args.Error(1)
}

type countMock struct{ mock.Mock }

func (m *countMock) Execute(ctx context.Context, filters domain.FilterParams) (map[string]int64, error) {
	args := m.Called(ctx, filters)
	result, _ := args.Get(0).(map[string]int64)
	return result, args.Error(1)
}

type bestMock struct{ mock.Mock }

func (m *bestMock) Execute(ctx context.Context, query domain.BestQuery) (*domain.PaginatedResult[domain.RankedProperty], error) {
	args := m.Called(ctx, query)
	result, _ := args.Get(0).(*domain.PaginatedResult[domain.RankedProperty])
	return result, args.Error(1)
}

type suggestMock struct{ mock.Mock }

func (m *suggestMock) Execute(ctx context.Context, query domain.SuggestionQuery) ([]domain.Location, error) {
	args := m.Called(ctx, query)
	result, _ := args.Get(0).([]domain.Location)
	return result, args.Error(1)
}

type hierarchyMock struct{ mock.Mock }

func (m *hierarchyMock) Execute(ctx context.Context) ([]domain.CityLocations, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).([]domain.CityLocations)
	return result, args.Error(1)
}

type dictionariesMock struct{ mock.Mock }

func (m *dictionariesMock) Execute(ctx context.Context, names []string) (map[string][]domain.DictionaryItem, error) {
	args := m.Called(ctx, names)
	result, _ := args.Get(0).(map[string][]domain.DictionaryItem)
	return result, args.Error(1)
}

type reporterMock struct{ mock.Mock }

func (m *reporterMock) ReportInternalError(ctx context.Context, event port.InternalErrorEvent) error {
	return m.Called(ctx, event).Error(0)
}

type pingerStub struct{ err error }

func (p pingerStub) Ping(context.Context) error { return p.err }

type staticLookups struct{}

func (staticLookups) PropertyTypes(context.Context) ([]string, error) {
	return []string{"flat", "house"}, nil
}

func (staticLookups) Purposes(context.Context) ([]string, error) {
	return []string{"for_rent", "for_sale"}, nil
}

func (staticLookups) CityID(context.Context, string) (int64, bool, error) {
	return 0, false, errors.New("not used")
}

type testServer struct {
	find         *findMock
	featured     *featuredMock
	similar      *similarMock
	details      *detailsMock
	count        *countMock
	best         *bestMock
	suggest      *suggestMock
	hierarchy    *hierarchyMock
	dictionaries *dictionariesMock
	reporter     *reporterMock
	responder    *ErrorResponder
	pinger       pingerStub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		find:         &findMock{},
		featured:     &featuredMock{},
		similar:      &similarMock{},
		details:      &detailsMock{},
		count:        &countMock{},
		best:         &bestMock{},
		suggest:      &suggestMock{},
		hierarchy:    &hierarchyMock{},
		dictionaries: &dictionariesMock{},
		reporter:     &reporterMock{},
	}
	ts.responder = NewErrorResponder(ts.reporter)
	return ts
}

func (ts *testServer) router(t *testing.T) http.Handler {
	t.Helper()
	validator, err := validation.NewValidator(staticLookups{})
	require.NoError(t, err)

	propertyHandler := NewPropertyHandler(validator, PropertyUseCases{
		Find:     ts.find,
		Featured: ts.featured,
		Similar:  ts.similar,
		Details:  ts.details,
		Count:    ts.count,
		Best:     ts.best,
	}, ts.responder)
	lookupHandler := NewLookupHandler(validator, ts.suggest, ts.hierarchy, ts.dictionaries, ts.responder)
	systemHandler := NewSystemHandler(ts.pinger, t.TempDir(), "Property Service API")

	return NewRouter(ServerConfig{AllowedOrigins: []string{"https://app.example.com"}},
		propertyHandler, lookupHandler, systemHandler, contextkeys.NoopLogger())
}

func defaultPage() domain.Page {
	return domain.Page{Size: validation.DefaultPageSize, Number: validation.DefaultPageNumber}
}

func defaultSort() []domain.SortSpec {
	return []domain.SortSpec{{Column: domain.SortByID, Direction: domain.SortAsc}}
}
