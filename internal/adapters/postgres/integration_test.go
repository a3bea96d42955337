//go:build integration
// +build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"property-service/internal/core/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const seedSQL = `
	INSERT INTO locations (id, name) VALUES (1, 'DHA Phase 5'), (2, 'Bahria Town'), (3, 'Gulberg');
	INSERT INTO agencies (id, title, profile_url) VALUES (1, 'Prime Estates', 'https://example.com/agency/1');
	INSERT INTO properties (id, header, type, price, location_id, bath, area, purpose, bedroom, added, url, city_id, agency_id, is_posted_by_agency, features)
	VALUES
		(1, 'House in DHA', 'house', 30000000, 1, 3, 2250, 'for_sale', 4, '2024-01-10', 'https://example.com/p/house-dha-5-1001-4-12.html', 3, 1, TRUE, '[{"category":"Main","features":["Parking"]}]'),
		(2, 'Flat in DHA', 'flat', 9000000, 1, 2, 900, 'for_sale', 2, '2024-02-10', 'https://example.com/p/flat-dha-1002-2-7.html', 3, NULL, FALSE, '[]'),
		(3, 'Cheap house', 'house', 12000000, 1, 2, 1125, 'for_sale', 3, '2024-03-10', 'https://example.com/p/house-1003-3-1.html', 3, NULL, FALSE, '[]'),
		(4, 'Rental flat', 'flat', 80000, 2, 1, 700, 'for_rent', 1, '2024-01-20', 'https://example.com/p/flat-1004-1-1.html', 1, NULL, FALSE, '[]'),
		(5, 'Zero price', 'shop', 0, 3, 1, 300, 'for_sale', NULL, '2024-01-01', 'https://example.com/p/shop-1005-1-1.html', 3, NULL, FALSE, '[]');
`

func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:alpine",
		tcpostgres.WithDatabase("properties"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	migrator, err := NewMigrator(pool)
	require.NoError(t, err)
	applied, err := migrator.Up(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"0001_init", "0002_trgm", "0003_rankings"}, applied)

	_, err = pool.Exec(ctx, seedSQL)
	require.NoError(t, err)
	require.NoError(t, migrator.RefreshRankings(ctx))

	cleanup := func() {
		pool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}
	return pool, cleanup
}

func TestPostgresIntegration(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	storage, err := NewPostgresStorageAdapter(pool, 5*time.Second)
	require.NoError(t, err)
	lookups, err := NewLookupRepository(pool, 5*time.Second)
	require.NoError(t, err)

	baseline := domain.PredicateSet{}.With(domain.RangeFilter{Column: domain.ColumnPrice, Min: 0.0, ExclusiveMin: true})

	t.Run("migrations are idempotent", func(t *testing.T) {
		migrator, err := NewMigrator(pool)
		require.NoError(t, err)
		applied, err := migrator.Up(ctx)
		require.NoError(t, err)
		assert.Empty(t, applied)
	})

	t.Run("find page excludes zero price and joins names", func(t *testing.T) {
		page, err := storage.FindPage(ctx, baseline, domain.Page{Size: 2, Number: 1},
			[]domain.SortSpec{{Column: domain.SortByPrice, Direction: domain.SortDesc}})
		require.NoError(t, err)

		assert.Equal(t, int64(4), page.Count)
		require.Len(t, page.Rows, 2)
		assert.Equal(t, int64(1), page.Rows[0].ID)
		assert.Equal(t, "DHA Phase 5", *page.Rows[0].Location)
		assert.Equal(t, "lahore", *page.Rows[0].City)
	})

	t.Run("find page with location search and type set", func(t *testing.T) {
		set := baseline.
			With(domain.TextSimilarityFilter{Column: domain.ColumnLocationName, Terms: []string{"dha"}}).
			With(domain.SetFilter{Column: domain.ColumnType, Values: []string{"house"}})

		page, err := storage.FindPage(ctx, set, domain.Page{Size: 10, Number: 1}, nil)
		require.NoError(t, err)

		assert.Equal(t, int64(2), page.Count)
		assert.Equal(t, int64(1), page.Rows[0].ID)
		assert.Equal(t, int64(3), page.Rows[1].ID)
	})

	t.Run("get by id loads agency and features", func(t *testing.T) {
		prop, err := storage.GetByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, prop)

		require.NotNil(t, prop.Agency)
		assert.Equal(t, "Prime Estates", *prop.Agency.Title)
		assert.Equal(t, []domain.Feature{{Category: "Main", Features: []string{"Parking"}}}, prop.Features)

		missing, err := storage.GetByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("count by type", func(t *testing.T) {
		counts, err := storage.CountByType(ctx, baseline.With(domain.EqualityFilter{Column: domain.ColumnPurpose, Value: "for_sale"}))
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"house": 2, "flat": 1}, counts)
	})

	t.Run("type counts add up to page total", func(t *testing.T) {
		set := baseline.With(domain.EqualityFilter{Column: domain.ColumnCityID, Value: int64(3)})

		counts, err := storage.CountByType(ctx, set)
		require.NoError(t, err)
		page, err := storage.FindPage(ctx, set, domain.Page{Size: 1, Number: 1}, nil)
		require.NoError(t, err)

		var sum int64
		for _, n := range counts {
			sum += n
		}
		assert.Equal(t, page.Count, sum)
		assert.Equal(t, int64(3), sum)
	})

	t.Run("best reads ranking view", func(t *testing.T) {
		best, err := storage.FindBest(ctx, domain.PurposeForSale, domain.PredicateSet{}, 2, domain.Page{Size: 10, Number: 1})
		require.NoError(t, err)

		require.Len(t, best.Rows, 2)
		assert.Equal(t, int64(2), best.Rows[0].ID)
		assert.Equal(t, 1, best.Rows[0].Rank)
		assert.Equal(t, 2, best.Rows[1].Rank)
	})

	t.Run("lookups", func(t *testing.T) {
		types, err := lookups.DistinctPropertyTypes(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"flat", "house", "shop"}, types)

		id, found, err := lookups.FindCityID(ctx, "Lahore")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, int64(3), id)

		_, found, err = lookups.FindCityID(ctx, "multan")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("suggestions use trigram similarity", func(t *testing.T) {
		trgm, err := lookups.DetectTrigramSupport(ctx)
		require.NoError(t, err)
		require.True(t, trgm)

		locations, err := lookups.SuggestLocations(ctx, domain.SuggestionQuery{Search: "bahria twn"}, 10)
		require.NoError(t, err)
		require.NotEmpty(t, locations)
		assert.Equal(t, "Bahria Town", locations[0].Name)
	})

	t.Run("location hierarchy", func(t *testing.T) {
		hierarchy, err := lookups.LocationHierarchy(ctx)
		require.NoError(t, err)

		require.Len(t, hierarchy, 2)
		assert.Equal(t, "islamabad", hierarchy[0].City.Name)
		assert.Equal(t, "lahore", hierarchy[1].City.Name)
		assert.Len(t, hierarchy[1].Locations, 2)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, lookups.Ping(ctx))
	})
}
