package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"property-service/internal/core/domain"
	"property-service/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const detailsURL = "https://www.example.pk/property/house-for-sale-dha-phase-5-45123-4-7.html"

func TestGetPropertyDetails_EnrichesWithNullOnFailure(t *testing.T) {
	storage := new(storageMock)
	trends := new(trendsMock)
	uc := NewGetPropertyDetailsUseCase(storage, trends, 3, time.Second)

	prop := &domain.Property{PropertyCard: domain.PropertyCard{ID: 5}, URL: detailsURL}
	storage.On("GetByID", mock.Anything, int64(5)).Return(prop, nil)
	trends.On("Fetch", mock.Anything, port.TrendsPopularity, "45123").Return(json.RawMessage(`{"views":10}`), nil)
	trends.On("Fetch", mock.Anything, port.TrendsArea, "45123").Return(nil, errors.New("timeout"))
	trends.On("Fetch", mock.Anything, port.TrendsContact, "45123").Return(json.RawMessage(`{"phone":"123"}`), nil)

	got, err := uc.Execute(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "45123", got[0].ExternalID)
	assert.JSONEq(t, `{"views":10}`, string(got[0].PopularityTrends))
	assert.Nil(t, got[0].AreaTrends)
	assert.JSONEq(t, `{"phone":"123"}`, string(got[0].Contact))

	encoded, err := json.Marshal(got[0])
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"area_trends":null`)
	trends.AssertExpectations(t)
}

func TestGetPropertyDetails_NotFoundReturnsEmptyList(t *testing.T) {
	storage := new(storageMock)
	trends := new(trendsMock)
	uc := NewGetPropertyDetailsUseCase(storage, trends, 3, time.Second)
	storage.On("GetByID", mock.Anything, int64(9)).Return(nil, nil)

	got, err := uc.Execute(context.Background(), 9)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	trends.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPropertyDetails_StorageError(t *testing.T) {
	storage := new(storageMock)
	uc := NewGetPropertyDetailsUseCase(storage, new(trendsMock), 3, time.Second)
	storage.On("GetByID", mock.Anything, int64(1)).Return(nil, errors.New("db down"))

	_, err := uc.Execute(context.Background(), 1)

	assert.Error(t, err)
}

func TestGetPropertyDetails_NoExternalIDSkipsEnrichment(t *testing.T) {
	storage := new(storageMock)
	trends := new(trendsMock)
	uc := NewGetPropertyDetailsUseCase(storage, trends, 3, time.Second)
	storage.On("GetByID", mock.Anything, int64(2)).Return(&domain.Property{URL: "https://example.com/no-digits"}, nil)

	got, err := uc.Execute(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Contact)
	trends.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

// concurrencyTrends считает максимум одновременных вызовов
type concurrencyTrends struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (c *concurrencyTrends) Fetch(ctx context.Context, kind port.TrendsKind, externalID string) (json.RawMessage, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		peak := c.peak.Load()
		if n <= peak || c.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return json.RawMessage(`{}`), nil
}

func TestGetPropertyDetails_SemaphoreBoundsConcurrency(t *testing.T) {
	storage := new(storageMock)
	trends := &concurrencyTrends{}
	uc := NewGetPropertyDetailsUseCase(storage, trends, 1, time.Second)
	storage.On("GetByID", mock.Anything, int64(3)).Return(&domain.Property{URL: detailsURL}, nil)

	got, err := uc.Execute(context.Background(), 3)

	require.NoError(t, err)
	assert.NotNil(t, got[0].Contact)
	assert.Equal(t, int32(1), trends.peak.Load())
}

func TestGetPropertyDetails_PerCallTimeout(t *testing.T) {
	storage := new(storageMock)
	trends := new(trendsMock)
	uc := NewGetPropertyDetailsUseCase(storage, trends, 3, 30*time.Millisecond)
	storage.On("GetByID", mock.Anything, int64(4)).Return(&domain.Property{URL: detailsURL}, nil)

	trends.On("Fetch", mock.Anything, mock.Anything, "45123").Return(nil, nil).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(30*time.Millisecond), deadline, 30*time.Millisecond)
	})

	_, err := uc.Execute(context.Background(), 4)

	require.NoError(t, err)
	trends.AssertNumberOfCalls(t, "Fetch", 3)
}
