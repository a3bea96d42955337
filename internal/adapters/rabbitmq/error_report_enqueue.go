package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"property-service/internal/contextkeys"
	"property-service/internal/core/port"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// InternalErrorDTO - сообщение для внешнего сервиса уведомлений
type InternalErrorDTO struct {
	Service    string    `json:"service"`
	Path       string    `json:"path"`
	Method     string    `json:"method"`
	Status     int       `json:"status"`
	Message    string    `json:"message"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// messagePublisher - часть rabbitmq_producer.Publisher, которой пользуется адаптер
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

type ErrorReporterAdapter struct {
	producer    messagePublisher
	routingKey  string
	serviceName string
}

func NewErrorReporterAdapter(producer messagePublisher, routingKey, serviceName string) (*ErrorReporterAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &ErrorReporterAdapter{
		producer:    producer,
		routingKey:  routingKey,
		serviceName: serviceName,
	}, nil
}

// ReportInternalError реализует ErrorReporterPort
func (a *ErrorReporterAdapter) ReportInternalError(ctx context.Context, event port.InternalErrorEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "ErrorReporterAdapter",
		"routing_key": a.routingKey,
	})

	traceID := event.TraceID
	if traceID == "" {
		traceID = contextkeys.TraceIDFromContext(ctx)
	}
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(InternalErrorDTO{
		Service:    a.serviceName,
		Path:       event.Path,
		Method:     event.Method,
		Status:     event.Status,
		Message:    event.Message,
		TraceID:    traceID,
		OccurredAt: occurredAt,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal error event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    occurredAt,
		Headers:      make(amqp.Table),
	}
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish internal error event", err, port.Fields{"path": event.Path})
		return fmt.Errorf("rabbitmq adapter: failed to publish error event: %w", err)
	}

	adapterLogger.Debug("Internal error event published", port.Fields{"path": event.Path, "status": event.Status})
	return nil
}
