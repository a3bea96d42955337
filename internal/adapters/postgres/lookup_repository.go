package postgres

import (
	"context"
	"errors"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// similarityThreshold - порог pg_trgm similarity для автодополнения
const similarityThreshold = 0.1

// LookupRepository - справочные запросы: типы, цели сделки, города, районы
type LookupRepository struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
	hasTrigram   atomic.Bool
}

func NewLookupRepository(pool *pgxpool.Pool, queryTimeout time.Duration) (*LookupRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &LookupRepository{
		pool:         pool,
		queryTimeout: queryTimeout,
	}, nil
}

func (r *LookupRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

// DetectTrigramSupport проверяет, установлено ли расширение pg_trgm.
// Вызывается один раз при старте; без расширения автодополнение работает через ILIKE.
func (r *LookupRepository) DetectTrigramSupport(ctx context.Context) (bool, error) {
	queryCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var installed bool
	err := r.pool.QueryRow(queryCtx, "SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'pg_trgm')").Scan(&installed)
	if err != nil {
		return false, fmt.Errorf("failed to detect pg_trgm extension: %w", err)
	}
	r.hasTrigram.Store(installed)
	return installed, nil
}

func (r *LookupRepository) DistinctPropertyTypes(ctx context.Context) ([]string, error) {
	return r.distinctValues(ctx, "SELECT DISTINCT type::text FROM properties WHERE type IS NOT NULL ORDER BY 1", "property types")
}

func (r *LookupRepository) DistinctPurposes(ctx context.Context) ([]string, error) {
	return r.distinctValues(ctx, "SELECT DISTINCT purpose::text FROM properties WHERE purpose IS NOT NULL ORDER BY 1", "purposes")
}

func (r *LookupRepository) distinctValues(ctx context.Context, query, what string) ([]string, error) {
	queryCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.pool.Query(queryCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", what, err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan distinct %s: %w", what, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// FindCityID ищет город по имени без учета регистра
func (r *LookupRepository) FindCityID(ctx context.Context, name string) (int64, bool, error) {
	queryCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var id int64
	err := r.pool.QueryRow(queryCtx, "SELECT id FROM cities WHERE lower(name) = lower($1) LIMIT 1", strings.TrimSpace(name)).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to find city %q: %w", name, err)
	}
	return id, true, nil
}

// SuggestLocations ищет районы по фрагменту названия.
// С pg_trgm результаты ранжируются по similarity, без него - ILIKE по подстроке.
func (r *LookupRepository) SuggestLocations(ctx context.Context, query domain.SuggestionQuery, limit int) ([]domain.Location, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "LookupRepository",
		"method":    "SuggestLocations",
		"trigram":   r.hasTrigram.Load(),
	})

	qb := newQueryBuilder()
	if query.City != "" {
		qb.addCondition("%s ILIKE $%d", "l.name", "%"+escapeLike(query.City)+"%")
	}

	order := "ORDER BY l.name ASC"
	if query.Search != "" {
		if r.hasTrigram.Load() {
			searchArg := qb.argId
			qb.addCondition("similarity(%s, $%d) > "+fmt.Sprintf("%.2f", similarityThreshold), "l.name", query.Search)
			order = fmt.Sprintf("ORDER BY similarity(l.name, $%d) DESC, l.name ASC", searchArg)
		} else {
			qb.addCondition("%s ILIKE $%d", "l.name", "%"+escapeLike(query.Search)+"%")
		}
	}

	whereClause, _ := qb.build()
	limitArg := qb.nextArg(limit)
	_, args := qb.build()
	sql := fmt.Sprintf("SELECT l.id, l.name FROM locations l %s %s LIMIT %s", whereClause, order, limitArg)

	queryCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.pool.Query(queryCtx, sql, args...)
	if err != nil {
		repoLogger.Error("Failed to query location suggestions", err, port.Fields{"query": sql})
		return nil, fmt.Errorf("failed to suggest locations: %w", err)
	}
	defer rows.Close()

	locations := make([]domain.Location, 0, limit)
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.ID, &loc.Name); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	repoLogger.Debug("Location suggestions found", port.Fields{"count": len(locations)})
	return locations, nil
}

// LocationHierarchy возвращает города и районы, в которых есть объекты
func (r *LookupRepository) LocationHierarchy(ctx context.Context) ([]domain.CityLocations, error) {
	queryCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.pool.Query(queryCtx, `
		SELECT DISTINCT c.id, c.name, l.id, l.name
		FROM properties p
		JOIN cities c ON c.id = p.city_id
		JOIN locations l ON l.id = p.location_id
		ORDER BY c.name, l.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query location hierarchy: %w", err)
	}
	defer rows.Close()

	hierarchy := make([]domain.CityLocations, 0, len(domain.AvailableCities))
	for rows.Next() {
		var city domain.City
		var loc domain.Location
		if err := rows.Scan(&city.ID, &city.Name, &loc.ID, &loc.Name); err != nil {
			return nil, fmt.Errorf("failed to scan location hierarchy row: %w", err)
		}
		if n := len(hierarchy); n == 0 || hierarchy[n-1].City.ID != city.ID {
			hierarchy = append(hierarchy, domain.CityLocations{City: city, Locations: []domain.Location{}})
		}
		last := &hierarchy[len(hierarchy)-1]
		last.Locations = append(last.Locations, loc)
	}
	return hierarchy, rows.Err()
}

// Ping проверяет соединение с базой для /health
func (r *LookupRepository) Ping(ctx context.Context) error {
	queryCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.pool.Ping(queryCtx)
}
