package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config - параметры подключения к Fluent Bit
type Config struct {
	Host      string
	Port      int
	TagPrefix string // общий префикс тегов сервиса, например "property-service"
	// Async не блокирует запросы, если Fluent Bit недоступен
	Async        bool
	WriteTimeout time.Duration
	MaxRetry     int
}

// NewClient создает клиент Fluent Bit.
// Соединение устанавливается лениво: ошибки проявятся при первой отправке.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluentd tag prefix is required")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("fluentd host is required")
	}

	fluentCfg := fluent.Config{
		FluentHost:   cfg.Host,
		FluentPort:   cfg.Port,
		TagPrefix:    cfg.TagPrefix,
		Async:        cfg.Async,
		WriteTimeout: cfg.WriteTimeout,
	}
	if cfg.MaxRetry > 0 {
		fluentCfg.MaxRetry = cfg.MaxRetry
	}

	logger, err := fluent.New(fluentCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}
	return logger, nil
}
