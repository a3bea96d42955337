package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cache_adapter "property-service/internal/adapters/cache"
	logger_adapter "property-service/internal/adapters/logger"
	postgres_adapter "property-service/internal/adapters/postgres"
	rabbitmq_adapter "property-service/internal/adapters/rabbitmq"
	"property-service/internal/adapters/rest"
	"property-service/internal/adapters/trends_client"
	"property-service/internal/configs"
	"property-service/internal/constants"
	"property-service/internal/contextkeys"
	"property-service/internal/core/filter"
	"property-service/internal/core/port"
	"property-service/internal/core/usecase"
	"property-service/internal/core/validation"
	fluentlogger "property-service/pkg/fluent_logger"
	"property-service/pkg/postgres"
	"property-service/pkg/rabbitmq/rabbitmq_common"
	"property-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	shutdownTimeout = 15 * time.Second
	docsTitle       = "Property Service API"
)

// infrastructure - то, что нужно и серверу, и служебным командам CLI
type infrastructure struct {
	config       *configs.AppConfig
	logger       port.LoggerPort
	fluentClient *fluent.Fluent
	dbPool       *pgxpool.Pool
}

// newInfrastructure поднимает логгеры и пул БД. loadConfig определяет,
// какие переменные окружения обязательны для команды.
func newInfrastructure(ctx context.Context, envPath string, loadConfig func(...string) (*configs.AppConfig, error)) (*infrastructure, error) {
	var appConfig *configs.AppConfig
	var err error
	if envPath != "" {
		appConfig, err = loadConfig(envPath)
	} else {
		appConfig, err = loadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ЛОГГЕРЫ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.JSON,
		UseColor: !appConfig.IsProduction(),
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			_ = fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
		"environment":  appConfig.Env,
	})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 2. POSTGRES ---
	dbPool, err := postgres.NewClient(ctx, postgres.Config{
		DatabaseURL:     appConfig.Database.URL,
		MaxConns:        appConfig.Database.MaxConns,
		ApplicationName: appConfig.AppName,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		if fluentClient != nil {
			_ = fluentClient.Close()
		}
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	return &infrastructure{
		config:       appConfig,
		logger:       baseLogger,
		fluentClient: fluentClient,
		dbPool:       dbPool,
	}, nil
}

func (i *infrastructure) close() {
	if i.dbPool != nil {
		i.dbPool.Close()
		i.logger.Info("PostgreSQL pool closed.", nil)
	}
	if i.fluentClient != nil {
		if err := i.fluentClient.Close(); err != nil {
			log.Printf("App: Error closing fluent client: %v\n", err)
		}
	}
}

// App – структура приложения
type App struct {
	*infrastructure

	appLogger   port.LoggerPort
	apiServer   *rest.Server
	memoryCache *cache_adapter.MemoryCache
	redisCache  *cache_adapter.RedisCache
	connManager *rabbitmq_common.ConnectionManager
	publisher   *rabbitmq_producer.Publisher
}

// NewApp собирает все адаптеры и сценарии. migrate применяет миграции до старта.
func NewApp(envPath string, migrate bool) (*App, error) {
	ctx := context.Background()

	infra, err := newInfrastructure(ctx, envPath, configs.LoadConfig)
	if err != nil {
		return nil, err
	}
	appConfig := infra.config
	appLogger := infra.logger.WithFields(port.Fields{"component": "app"})
	ctx = contextkeys.ContextWithLogger(ctx, infra.logger)

	app := &App{infrastructure: infra, appLogger: appLogger}
	fail := func(err error) (*App, error) {
		app.closeResources()
		return nil, err
	}

	if migrate {
		if err := applyMigrations(ctx, infra.dbPool); err != nil {
			return fail(err)
		}
	}

	// --- 3. ИСХОДЯЩИЕ АДАПТЕРЫ ---
	storageAdapter, err := postgres_adapter.NewPostgresStorageAdapter(infra.dbPool, appConfig.Database.QueryTimeout)
	if err != nil {
		return fail(fmt.Errorf("failed to create postgres storage adapter: %w", err))
	}

	lookupRepo, err := postgres_adapter.NewLookupRepository(infra.dbPool, appConfig.Database.QueryTimeout)
	if err != nil {
		return fail(fmt.Errorf("failed to create lookup repository: %w", err))
	}
	trigram, err := lookupRepo.DetectTrigramSupport(ctx)
	if err != nil {
		appLogger.Warn("Could not detect pg_trgm, suggestions fall back to ILIKE", port.Fields{"error": err.Error()})
	} else {
		appLogger.Info("Suggestion search mode detected", port.Fields{"trigram": trigram})
	}

	var cache port.CachePort
	if appConfig.Cache.RedisURL != "" {
		app.redisCache, err = cache_adapter.NewRedisCache(ctx, appConfig.Cache.RedisURL, appConfig.AppName+":")
		if err != nil {
			appLogger.Error("Failed to connect to Redis", err, nil)
			return fail(fmt.Errorf("failed to connect to redis: %w", err))
		}
		cache = app.redisCache
		appLogger.Info("Redis lookup cache initialized.", nil)
	} else {
		app.memoryCache = cache_adapter.NewMemoryCache()
		cache = app.memoryCache
		appLogger.Info("In-memory lookup cache initialized.", nil)
	}

	trendsClient, err := trends_client.NewTrendsAPIClient(trends_client.Config{
		PopularityTrendURL: appConfig.Trends.PopularityTrendURL,
		AreaTrendURL:       appConfig.Trends.AreaTrendURL,
		ContactURL:         appConfig.Trends.ContactURL,
		Timeout:            appConfig.Trends.RequestTimeout,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to create trends client: %w", err))
	}

	var reporter port.ErrorReporterPort
	if appConfig.RabbitMQ.ErrorReportingEnabled {
		reporter, err = app.initErrorReporter()
		if err != nil {
			return fail(err)
		}
	}
	appLogger.Info("All outgoing adapters initialized.", nil)

	// --- 4. СЦЕНАРИИ ---
	lookups, err := usecase.NewCachedLookups(lookupRepo, cache, appConfig.CacheTTL())
	if err != nil {
		return fail(err)
	}
	validator, err := validation.NewValidator(lookups)
	if err != nil {
		return fail(err)
	}
	builder, err := filter.NewBuilder(lookups)
	if err != nil {
		return fail(err)
	}

	detailsUseCase := usecase.NewGetPropertyDetailsUseCase(storageAdapter, trendsClient,
		appConfig.Trends.Concurrency, appConfig.Trends.RequestTimeout)
	propertyUseCases := rest.PropertyUseCases{
		Find:     usecase.NewFindPropertiesUseCase(storageAdapter, builder),
		Featured: usecase.NewFeaturedPropertiesUseCase(storageAdapter, builder, appConfig.FeaturedPriceThreshold),
		Similar:  usecase.NewSimilarPropertiesUseCase(storageAdapter, builder),
		Details:  detailsUseCase,
		Count:    usecase.NewCountByTypeUseCase(storageAdapter, builder),
		Best:     usecase.NewBestPropertiesUseCase(storageAdapter, builder),
	}
	suggestUseCase := usecase.NewSuggestLocationsUseCase(lookupRepo)
	hierarchyUseCase := usecase.NewLocationHierarchyUseCase(lookupRepo)
	dictionariesUseCase := usecase.NewGetDictionariesUseCase(lookups)
	appLogger.Info("All use cases initialized.", nil)

	// --- 5. REST ---
	errResponder := rest.NewErrorResponder(reporter)
	app.apiServer = rest.NewServer(rest.ServerConfig{
		Port:             appConfig.Rest.Port,
		AllowedOrigins:   appConfig.Rest.AllowedOrigins,
		AllowCredentials: appConfig.Rest.AllowCredentials,
		RequestTimeout:   appConfig.Rest.RequestTimeout,
		ReadTimeout:      appConfig.Rest.ReadTimeout,
		WriteTimeout:     appConfig.Rest.WriteTimeout,
	},
		rest.NewPropertyHandler(validator, propertyUseCases, errResponder),
		rest.NewLookupHandler(validator, suggestUseCase, hierarchyUseCase, dictionariesUseCase, errResponder),
		rest.NewSystemHandler(lookupRepo, appConfig.DocsSpecDir, docsTitle),
		infra.logger,
	)

	return app, nil
}

func (a *App) initErrorReporter() (port.ErrorReporterPort, error) {
	connManagerLogger := a.logger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	connManager, err := rabbitmq_common.NewConnectionManager(
		rabbitmq_common.Config{URL: a.config.RabbitMQ.URL},
		rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger),
	)
	if err != nil {
		a.appLogger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create rabbitmq connection manager: %w", err)
	}
	a.connManager = connManager
	a.appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerLogger := a.logger.WithFields(port.Fields{"component": "rabbitmq_producer"})
	publisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: a.config.RabbitMQ.URL},
		ExchangeName:             constants.ErrorsExchange,
		ExchangeType:             constants.ErrorsExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(producerLogger),
	}, connManager)
	if err != nil {
		a.appLogger.Error("Failed to create error report producer", err, nil)
		return nil, fmt.Errorf("failed to create error report producer: %w", err)
	}
	a.publisher = publisher

	reporter, err := rabbitmq_adapter.NewErrorReporterAdapter(publisher, constants.RoutingKeyInternalError, a.config.AppName)
	if err != nil {
		return nil, err
	}
	a.appLogger.Info("Error reporter initialized.", port.Fields{"exchange": constants.ErrorsExchange})
	return reporter, nil
}

// Run запускает сервер и ждет сигнала на завершение
func (a *App) Run() error {
	defer func() {
		a.appLogger.Info("Shutdown sequence initiated...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.apiServer.Stop(shutdownCtx); err != nil {
			a.appLogger.Error("Error closing api server", err, nil)
		}

		a.closeResources()
		log.Println("Application shut down gracefully.")
	}()

	if a.memoryCache != nil {
		go a.memoryCache.Start()
		defer a.memoryCache.Stop()
	}

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.appLogger.Info("Application running. Waiting for signals...", nil)
	select {
	case receivedSignal := <-quit:
		a.appLogger.Warn("Received signal, shutting down", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.appLogger.Error("HTTP server failed, shutting down", err, nil)
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

func (a *App) closeResources() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.appLogger.Error("Error closing error report producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.appLogger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
	}
	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			a.appLogger.Error("Error closing redis client", err, nil)
		}
	}
	a.infrastructure.close()
}

// Migrate применяет встроенные миграции и завершается
func Migrate(envPath string) error {
	ctx := context.Background()
	infra, err := newInfrastructure(ctx, envPath, configs.LoadDatabaseConfig)
	if err != nil {
		return err
	}
	defer infra.close()

	return applyMigrations(contextkeys.ContextWithLogger(ctx, infra.logger), infra.dbPool)
}

// RefreshRankings пересчитывает рейтинги лучших объектов
func RefreshRankings(envPath string) error {
	ctx := context.Background()
	infra, err := newInfrastructure(ctx, envPath, configs.LoadDatabaseConfig)
	if err != nil {
		return err
	}
	defer infra.close()

	migrator, err := postgres_adapter.NewMigrator(infra.dbPool)
	if err != nil {
		return err
	}
	return migrator.RefreshRankings(contextkeys.ContextWithLogger(ctx, infra.logger))
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := postgres_adapter.NewMigrator(pool)
	if err != nil {
		return err
	}
	applied, err := migrator.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	contextkeys.LoggerFromContext(ctx).Info("Migrations are up to date", port.Fields{"applied": applied})
	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
