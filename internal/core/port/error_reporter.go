package port

import (
	"context"
	"time"
)

// InternalErrorEvent - сведения о 500-й ошибке для оператора
type InternalErrorEvent struct {
	Path       string
	Method     string
	Status     int
	Message    string
	TraceID    string
	OccurredAt time.Time
}

// ErrorReporterPort отправляет события о внутренних ошибках во внешнюю систему уведомлений
type ErrorReporterPort interface {
	ReportInternalError(ctx context.Context, event InternalErrorEvent) error
}
