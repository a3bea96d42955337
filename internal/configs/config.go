package configs

import (
	"bytes"
	_ "embed"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed env_schema.json
var envSchemaJSON []byte

//go:embed serve_env_schema.json
var serveEnvSchemaJSON []byte

const (
	envSchemaURL      = "env_schema.json"
	serveEnvSchemaURL = "serve_env_schema.json"
)

type RESTConfig struct {
	Port             string        `env:"PORT" envDefault:"8080"`
	AllowedOrigins   []string      `env:"ORIGIN" envSeparator:","`
	AllowCredentials bool          `env:"CREDENTIALS" envDefault:"false"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ReadTimeout      time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout     time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"45s"`
}

// DBConfig: DATABASE_URL имеет приоритет над POSTGRES_*
type DBConfig struct {
	URL          string        `env:"DATABASE_URL"`
	Host         string        `env:"POSTGRES_HOST"`
	Port         int           `env:"POSTGRES_PORT" envDefault:"5432"`
	Name         string        `env:"POSTGRES_DB"`
	User         string        `env:"POSTGRES_USER"`
	Password     string        `env:"POSTGRES_PASSWORD"`
	MaxConns     int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	QueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`
}

type TrendsConfig struct {
	PopularityTrendURL string        `env:"POPULARITY_TREND_URL"`
	AreaTrendURL       string        `env:"AREA_TREND_URL"`
	ContactURL         string        `env:"CONTACT_URL"`
	RequestTimeout     time.Duration `env:"TREND_REQUEST_TIMEOUT" envDefault:"3s"`
	Concurrency        int64         `env:"ENRICHMENT_CONCURRENCY" envDefault:"16"`
}

type CacheConfig struct {
	ExpirySeconds int    `env:"CACHE_EXPIRY_SECONDS" envDefault:"3600"`
	RedisURL      string `env:"REDIS_URL"`
}

type StdoutLogConfig struct {
	Level string `env:"STDOUT_LOG_LEVEL" envDefault:"debug"`
	JSON  bool   `env:"STDOUT_LOG_JSON" envDefault:"false"`
}

type FluentBitConfig struct {
	Enabled bool   `env:"FLUENTBIT_ENABLED" envDefault:"false"`
	Host    string `env:"FLUENTBIT_HOST"`
	Port    int    `env:"FLUENTBIT_PORT" envDefault:"24224"`
	Level   string `env:"FLUENTBIT_LOG_LEVEL" envDefault:"info"`
}

type RabbitMQConfig struct {
	ErrorReportingEnabled bool   `env:"ERROR_REPORTING_ENABLED" envDefault:"false"`
	URL                   string `env:"RABBITMQ_URL"`
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName string `env:"APP_NAME" envDefault:"property-service"`
	Env     string `env:"NODE_ENV" envDefault:"development"`

	Rest         RESTConfig
	Database     DBConfig
	Trends       TrendsConfig
	Cache        CacheConfig
	StdoutLogger StdoutLogConfig
	FluentBit    FluentBitConfig
	RabbitMQ     RabbitMQConfig

	FeaturedPriceThreshold float64 `env:"FEATURED_PROPERTY_PRICE_THRESHOLD"`
	DocsSpecDir            string  `env:"DOCS_SPEC_DIR" envDefault:"./docs"`
}

// CacheTTL - время жизни справочников в кэше
func (c *AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.Cache.ExpirySeconds) * time.Second
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// LoadConfig загружает .env (если есть) и разбирает переменные окружения для сервера
func LoadConfig(envPath ...string) (*AppConfig, error) {
	loadDotEnv(envPath)
	return Parse(environ())
}

// LoadDatabaseConfig - то же для служебных команд: обязательны только настройки БД
func LoadDatabaseConfig(envPath ...string) (*AppConfig, error) {
	loadDotEnv(envPath)
	return ParseDatabase(environ())
}

func loadDotEnv(envPath []string) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		// .env необязателен: в контейнере переменные приходят из окружения
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}
}

// Parse проверяет окружение по JSON-схеме сервера и собирает AppConfig.
// Любое нарушение схемы - ошибка старта.
func Parse(environment map[string]string) (*AppConfig, error) {
	return parse(environment, serveEnvSchemaURL)
}

// ParseDatabase не требует ORIGIN, адресов трендов и порога цены
func ParseDatabase(environment map[string]string) (*AppConfig, error) {
	return parse(environment, envSchemaURL)
}

func parse(environment map[string]string, schemaURL string) (*AppConfig, error) {
	if err := validateEnvironment(environment, schemaURL); err != nil {
		return nil, err
	}

	cfg := &AppConfig{}
	if err := env.Parse(cfg, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.Rest.AllowedOrigins = trimAll(cfg.Rest.AllowedOrigins)
	if cfg.Database.URL == "" {
		cfg.Database.URL = cfg.Database.connectionURL()
	}
	if cfg.FluentBit.Enabled && cfg.FluentBit.Host == "" {
		log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
		cfg.FluentBit.Enabled = false
	}

	return cfg, nil
}

func (d DBConfig) connectionURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   "/" + d.Name,
	}
	return u.String()
}

func validateEnvironment(environment map[string]string, schemaURL string) error {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(envSchemaURL, bytes.NewReader(envSchemaJSON)); err != nil {
		return fmt.Errorf("failed to load env schema: %w", err)
	}
	if err := compiler.AddResource(serveEnvSchemaURL, bytes.NewReader(serveEnvSchemaJSON)); err != nil {
		return fmt.Errorf("failed to load serve env schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("failed to compile env schema: %w", err)
	}

	doc := make(map[string]interface{}, len(environment))
	for k, v := range environment {
		doc[k] = v
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	return nil
}

func environ() map[string]string {
	vars := os.Environ()
	result := make(map[string]string, len(vars))
	for _, kv := range vars {
		if k, v, ok := strings.Cut(kv, "="); ok {
			result[k] = v
		}
	}
	return result
}

func trimAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
