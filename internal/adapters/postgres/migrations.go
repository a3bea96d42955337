package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"property-service/internal/contextkeys"
	"property-service/internal/core/port"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator применяет встроенные SQL-миграции через goose.
// Каждый файл выполняется в своей транзакции, версии хранятся в goose_db_version.
type Migrator struct {
	pool     *pgxpool.Pool
	provider *goose.Provider
}

func NewMigrator(pool *pgxpool.Pool) (*Migrator, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, db, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return &Migrator{pool: pool, provider: provider}, nil
}

// Up применяет все еще не примененные миграции и возвращает их имена без .sql
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "Migrator",
		"method":    "Up",
	})

	results, err := m.provider.Up(ctx)
	applied := make([]string, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			continue
		}
		name := strings.TrimSuffix(path.Base(r.Source.Path), ".sql")
		logger.Info("Migration applied", port.Fields{"version": name, "duration": r.Duration.String()})
		applied = append(applied, name)
	}
	if err != nil {
		logger.Error("Migration failed", err, nil)
		return applied, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return applied, nil
}

// RefreshRankings пересчитывает материализованные представления рейтинга
func (m *Migrator) RefreshRankings(ctx context.Context) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "Migrator",
		"method":    "RefreshRankings",
	})

	views := make([]string, 0, len(rankedViews))
	for _, view := range rankedViews {
		views = append(views, view)
	}
	sort.Strings(views)

	for _, view := range views {
		if _, err := m.pool.Exec(ctx, "REFRESH MATERIALIZED VIEW "+view); err != nil {
			logger.Error("Failed to refresh ranking view", err, port.Fields{"view": view})
			return fmt.Errorf("failed to refresh %s: %w", view, err)
		}
		logger.Info("Ranking view refreshed", port.Fields{"view": view})
	}
	return nil
}
