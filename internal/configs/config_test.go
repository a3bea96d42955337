package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnv() map[string]string {
	return map[string]string{
		"ORIGIN":                            "http://localhost:3000, https://app.example.com",
		"POSTGRES_HOST":                     "db",
		"POSTGRES_DB":                       "properties",
		"POSTGRES_USER":                     "app",
		"POSTGRES_PASSWORD":                 "p@ss word",
		"POPULARITY_TREND_URL":              "https://trends.example.com/popularity/",
		"AREA_TREND_URL":                    "https://trends.example.com/area/",
		"CONTACT_URL":                       "https://trends.example.com/contact/",
		"FEATURED_PROPERTY_PRICE_THRESHOLD": "20000000",
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(validEnv())
	require.NoError(t, err)

	assert.Equal(t, "property-service", cfg.AppName)
	assert.Equal(t, "8080", cfg.Rest.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.Rest.AllowedOrigins)
	assert.False(t, cfg.Rest.AllowCredentials)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/properties", cfg.Database.URL)
	assert.Equal(t, 20000000.0, cfg.FeaturedPriceThreshold)
	assert.Equal(t, time.Hour, cfg.CacheTTL())
	assert.Equal(t, int64(16), cfg.Trends.Concurrency)
	assert.False(t, cfg.RabbitMQ.ErrorReportingEnabled)
}

func TestParse_DatabaseURLWins(t *testing.T) {
	env := validEnv()
	env["DATABASE_URL"] = "postgres://u:p@other:6543/db"

	cfg, err := Parse(env)
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@other:6543/db", cfg.Database.URL)
}

func TestParse_Overrides(t *testing.T) {
	env := validEnv()
	env["PORT"] = "3000"
	env["CREDENTIALS"] = "true"
	env["CACHE_EXPIRY_SECONDS"] = "60"
	env["DB_QUERY_TIMEOUT"] = "750ms"
	env["FLUENTBIT_ENABLED"] = "true"

	cfg, err := Parse(env)
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Rest.Port)
	assert.True(t, cfg.Rest.AllowCredentials)
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, 750*time.Millisecond, cfg.Database.QueryTimeout)
	assert.False(t, cfg.FluentBit.Enabled, "fluent bit without host must be disabled")
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing trend url", func(e map[string]string) { delete(e, "CONTACT_URL") }},
		{"trend url is not a url", func(e map[string]string) { e["AREA_TREND_URL"] = "not a url" }},
		{"no database settings", func(e map[string]string) { delete(e, "POSTGRES_HOST") }},
		{"non numeric port", func(e map[string]string) { e["PORT"] = "eighty" }},
		{"non numeric threshold", func(e map[string]string) { e["FEATURED_PROPERTY_PRICE_THRESHOLD"] = "1e6" }},
		{"bad node env", func(e map[string]string) { e["NODE_ENV"] = "staging" }},
		{"bad duration", func(e map[string]string) { e["TREND_REQUEST_TIMEOUT"] = "soon" }},
		{"zero concurrency", func(e map[string]string) { e["ENRICHMENT_CONCURRENCY"] = "0" }},
		{"reporting without rabbitmq", func(e map[string]string) { e["ERROR_REPORTING_ENABLED"] = "true" }},
		{"rabbitmq url with wrong scheme", func(e map[string]string) { e["RABBITMQ_URL"] = "http://mq:5672" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := validEnv()
			tt.mutate(env)

			_, err := Parse(env)

			assert.Error(t, err)
		})
	}
}

func TestParse_ErrorReportingEnabled(t *testing.T) {
	env := validEnv()
	env["ERROR_REPORTING_ENABLED"] = "true"
	env["RABBITMQ_URL"] = "amqp://guest:guest@mq:5672/"

	cfg, err := Parse(env)
	require.NoError(t, err)

	assert.True(t, cfg.RabbitMQ.ErrorReportingEnabled)
	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.RabbitMQ.URL)
}

func TestParseDatabase_NeedsOnlyDatabase(t *testing.T) {
	env := map[string]string{"DATABASE_URL": "postgres://u:p@db:5432/properties"}

	cfg, err := ParseDatabase(env)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/properties", cfg.Database.URL)

	_, err = Parse(env)
	assert.Error(t, err, "serve still requires origins, trend urls and the price threshold")
}

func TestParseDatabase_StillValidates(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"no database settings", map[string]string{}},
		{"bad query timeout", map[string]string{"DATABASE_URL": "postgres://u:p@db/x", "DB_QUERY_TIMEOUT": "soon"}},
		{"reporting without rabbitmq", map[string]string{"DATABASE_URL": "postgres://u:p@db/x", "ERROR_REPORTING_ENABLED": "true"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDatabase(tt.env)

			assert.Error(t, err)
		})
	}
}
