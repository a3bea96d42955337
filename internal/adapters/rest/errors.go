package rest

import (
	"context"
	"errors"
	"net/http"
	"property-service/internal/constants"
	"property-service/internal/contextkeys"
	"property-service/internal/core/domain"
	"property-service/internal/core/port"
	"time"
)

// ErrorResponder переводит ошибки сценариев в HTTP-ответы.
// Ошибки валидации дают 400 с текстом, остальные - 500 с общим текстом
// и отчетом во внешнюю систему уведомлений.
type ErrorResponder struct {
	reporter port.ErrorReporterPort
	// reported вызывается после попытки отправить отчет
	reported func()
}

// NewErrorResponder: reporter может быть nil, тогда отчеты не отправляются
func NewErrorResponder(reporter port.ErrorReporterPort) *ErrorResponder {
	return &ErrorResponder{reporter: reporter}
}

func (e *ErrorResponder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteJSONError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	logger := contextkeys.LoggerFromContext(r.Context())
	logger.Error("Request failed with internal error", err, port.Fields{
		"http_method": r.Method,
		"http_path":   r.URL.Path,
	})
	WriteJSONError(w, http.StatusInternalServerError, constants.MessageInternalError)

	if e.reporter == nil {
		return
	}

	event := port.InternalErrorEvent{
		Path:       r.URL.RequestURI(),
		Method:     r.Method,
		Status:     http.StatusInternalServerError,
		Message:    err.Error(),
		TraceID:    contextkeys.TraceIDFromContext(r.Context()),
		OccurredAt: time.Now().UTC(),
	}
	// отчет не должен задерживать ответ и не должен отменяться вместе с запросом
	reportCtx := context.WithoutCancel(r.Context())
	go func() {
		if e.reported != nil {
			defer e.reported()
		}
		if err := e.reporter.ReportInternalError(reportCtx, event); err != nil {
			logger.Warn("Failed to report internal error", port.Fields{"error": err.Error()})
		}
	}()
}
