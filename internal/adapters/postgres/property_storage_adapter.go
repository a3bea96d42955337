package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cardColumns = `
	p.id, p.description, p.header, p.type::text, p.price, p.cover_photo_url, p.available,
	p.area, p.added, p.bedroom, p.bath, l.name AS location, c.name AS city`

const cardJoins = `
	LEFT JOIN locations l ON l.id = p.location_id
	LEFT JOIN cities c ON c.id = p.city_id`

// rankedViews - материализованные представления рейтинга по цели сделки
var rankedViews = map[domain.Purpose]string{
	domain.PurposeForSale: "rankedpropertiesforsale",
	domain.PurposeForRent: "rankedpropertiesforrent",
}

// querier - часть pgxpool.Pool, нужная для выборки страниц
type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PostgresStorageAdapter struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

// NewPostgresStorageAdapter создает адаптер; queryTimeout <= 0 отключает таймаут на запрос
func NewPostgresStorageAdapter(pool *pgxpool.Pool, queryTimeout time.Duration) (*PostgresStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresStorageAdapter{
		pool:         pool,
		queryTimeout: queryTimeout,
	}, nil
}

func (a *PostgresStorageAdapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.queryTimeout)
}

// FindPage параллельно выполняет count и выборку страницы
func (a *PostgresStorageAdapter) FindPage(ctx context.Context, predicates domain.PredicateSet, page domain.Page, sort []domain.SortSpec) (*domain.PaginatedResult[domain.PropertyCard], error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresStorageAdapter",
		"method":      "FindPage",
		"page_size":   page.Size,
		"page_number": page.Number,
	})

	if predicates.Unsatisfiable {
		repoLogger.Debug("Predicate set is unsatisfiable, skipping queries", nil)
		return &domain.PaginatedResult[domain.PropertyCard]{Rows: []domain.PropertyCard{}}, nil
	}

	qb, err := applyPredicates(predicates)
	if err != nil {
		return nil, fmt.Errorf("failed to build filters: %w", err)
	}
	order, err := orderBy(sort)
	if err != nil {
		return nil, fmt.Errorf("failed to build order clause: %w", err)
	}

	whereClause, countArgs := qb.build()
	countArgs = append([]interface{}{}, countArgs...)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM properties p %s", whereClause)

	limitArg := qb.nextArg(page.Size)
	offsetArg := qb.nextArg(page.Offset())
	_, dataArgs := qb.build()
	dataQuery := fmt.Sprintf("SELECT %s FROM properties p %s %s %s LIMIT %s OFFSET %s",
		cardColumns, cardJoins, whereClause, order, limitArg, offsetArg)

	queryCtx, cancel := a.withTimeout(ctx)
	defer cancel()
	return fetchPage(queryCtx, a.pool, repoLogger, countQuery, countArgs, dataQuery, dataArgs, page.Size, scanCard)
}

// GetByID возвращает объект со связанными районом, городом и агентством.
// Если объекта нет, возвращается nil без ошибки.
func (a *PostgresStorageAdapter) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PostgresStorageAdapter",
		"method":      "GetByID",
		"property_id": id,
	})

	query := fmt.Sprintf(`
		SELECT %s,
			p.purpose::text, p.location_id, p.city_id, p.initial_amount, p.monthly_installment,
			p.remaining_installments, p.url, p.features, p.is_posted_by_agency, p.created_at, p.updated_at,
			ag.id, ag.title, ag.profile_url
		FROM properties p %s
		LEFT JOIN agencies ag ON ag.id = p.agency_id
		WHERE p.id = $1`, cardColumns, cardJoins)

	queryCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	var (
		prop        domain.Property
		featuresRaw []byte
		agencyID    *int64
		agencyTitle *string
		agencyURL   *string
	)
	c := &prop.PropertyCard
	err := a.pool.QueryRow(queryCtx, query, id).Scan(
		&c.ID, &c.Description, &c.Header, &c.Type, &c.Price, &c.CoverPhotoURL, &c.Available,
		&c.Area, &c.Added, &c.Bedroom, &c.Bath, &c.Location, &c.City,
		&prop.Purpose, &prop.LocationID, &prop.CityID, &prop.InitialAmount, &prop.MonthlyInstallment,
		&prop.RemainingInstallments, &prop.URL, &featuresRaw, &prop.IsPostedByAgency, &prop.CreatedAt, &prop.UpdatedAt,
		&agencyID, &agencyTitle, &agencyURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("Property not found", nil)
			return nil, nil
		}
		repoLogger.Error("Failed to query property by id", err, nil)
		return nil, fmt.Errorf("failed to get property by id %d: %w", id, err)
	}

	prop.Features = []domain.Feature{}
	if len(featuresRaw) > 0 {
		if err := json.Unmarshal(featuresRaw, &prop.Features); err != nil {
			repoLogger.Warn("Failed to decode property features, leaving them empty", port.Fields{"error": err.Error()})
			prop.Features = []domain.Feature{}
		}
	}
	if agencyID != nil {
		prop.Agency = &domain.Agency{ID: *agencyID, Title: agencyTitle, ProfileURL: agencyURL}
	}

	return &prop, nil
}

// CountByType считает объекты по типам одним GROUP BY запросом
func (a *PostgresStorageAdapter) CountByType(ctx context.Context, predicates domain.PredicateSet) (map[string]int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresStorageAdapter",
		"method":    "CountByType",
	})

	result := make(map[string]int64)
	if predicates.Unsatisfiable {
		return result, nil
	}

	qb, err := applyPredicates(predicates)
	if err != nil {
		return nil, fmt.Errorf("failed to build filters: %w", err)
	}
	whereClause, args := qb.build()
	query := fmt.Sprintf("SELECT COALESCE(p.type::text, 'unknown'), COUNT(*) FROM properties p %s GROUP BY 1", whereClause)

	queryCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	rows, err := a.pool.Query(queryCtx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to count properties by type", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to count properties by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var propertyType string
		var count int64
		if err := rows.Scan(&propertyType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		result[propertyType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during type count iteration: %w", err)
	}

	repoLogger.Debug("Counted properties by type", port.Fields{"types": len(result)})
	return result, nil
}

// FindBest читает рейтинг лучших предложений по районам (rank <= limit)
func (a *PostgresStorageAdapter) FindBest(ctx context.Context, purpose domain.Purpose, predicates domain.PredicateSet, limit int, page domain.Page) (*domain.PaginatedResult[domain.RankedProperty], error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresStorageAdapter",
		"method":    "FindBest",
		"purpose":   purpose,
		"limit":     limit,
	})

	if predicates.Unsatisfiable {
		return &domain.PaginatedResult[domain.RankedProperty]{Rows: []domain.RankedProperty{}}, nil
	}

	view, ok := rankedViews[purpose]
	if !ok {
		view = rankedViews[domain.PurposeForRent]
	}

	qb, err := applyPredicates(predicates)
	if err != nil {
		return nil, fmt.Errorf("failed to build filters: %w", err)
	}
	qb.addCondition("%s <= $%d", "p.rank", limit)

	whereClause, countArgs := qb.build()
	countArgs = append([]interface{}{}, countArgs...)
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s p %s", view, whereClause)

	limitArg := qb.nextArg(page.Size)
	offsetArg := qb.nextArg(page.Offset())
	_, dataArgs := qb.build()
	dataQuery := fmt.Sprintf(`SELECT %s, p.location_id, p.rank FROM %s p %s %s
		ORDER BY p.location_id ASC, p.rank ASC LIMIT %s OFFSET %s`,
		cardColumns, view, cardJoins, whereClause, limitArg, offsetArg)

	queryCtx, cancel := a.withTimeout(ctx)
	defer cancel()
	return fetchPage(queryCtx, a.pool, repoLogger, countQuery, countArgs, dataQuery, dataArgs, page.Size, scanRanked)
}

// fetchPage запускает count и выборку одновременно.
// Если упал только один из запросов, ошибка логируется и подставляется
// пустое значение; ошибка возвращается, только если упали оба.
func fetchPage[T any](
	ctx context.Context,
	db querier,
	logger port.LoggerPort,
	countQuery string, countArgs []interface{},
	dataQuery string, dataArgs []interface{},
	capacity int,
	scan func(pgx.Rows) (T, error),
) (*domain.PaginatedResult[T], error) {
	var (
		wg       sync.WaitGroup
		count    int64
		countErr error
		rows     []T
		rowsErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		countErr = db.QueryRow(ctx, countQuery, countArgs...).Scan(&count)
	}()
	go func() {
		defer wg.Done()
		rows, rowsErr = queryRows(ctx, db, dataQuery, dataArgs, capacity, scan)
	}()
	wg.Wait()

	if countErr != nil && rowsErr != nil {
		logger.Error("Both count and page queries failed", errors.Join(countErr, rowsErr), nil)
		return nil, fmt.Errorf("failed to query page: %w", errors.Join(countErr, rowsErr))
	}
	if countErr != nil {
		logger.Error("Count query failed, returning zero count", countErr, port.Fields{"query": countQuery})
		count = 0
	}
	if rowsErr != nil {
		logger.Error("Page query failed, returning empty rows", rowsErr, port.Fields{"query": dataQuery})
		rows = []T{}
	}

	logger.Info("Page fetched", port.Fields{"total_count": count, "rows": len(rows)})
	return &domain.PaginatedResult[T]{Rows: rows, Count: count}, nil
}

func queryRows[T any](ctx context.Context, db querier, query string, args []interface{}, capacity int, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if capacity < 0 || capacity > 1000 {
		capacity = 0
	}
	result := make([]T, 0, capacity)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func scanCard(rows pgx.Rows) (domain.PropertyCard, error) {
	var c domain.PropertyCard
	err := rows.Scan(
		&c.ID, &c.Description, &c.Header, &c.Type, &c.Price, &c.CoverPhotoURL, &c.Available,
		&c.Area, &c.Added, &c.Bedroom, &c.Bath, &c.Location, &c.City,
	)
	return c, err
}

func scanRanked(rows pgx.Rows) (domain.RankedProperty, error) {
	var r domain.RankedProperty
	c := &r.PropertyCard
	err := rows.Scan(
		&c.ID, &c.Description, &c.Header, &c.Type, &c.Price, &c.CoverPhotoURL, &c.Available,
		&c.Area, &c.Added, &c.Bedroom, &c.Bath, &c.Location, &c.City,
		&r.LocationID, &r.Rank,
	)
	return r, err
}
