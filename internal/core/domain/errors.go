package domain

import (
	"errors"
	"fmt"
)

// ValidationError - ошибка входных параметров, отдается клиенту как 400
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError формирует ошибку с сообщением для клиента
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError проверяет цепочку ошибок на ValidationError
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
