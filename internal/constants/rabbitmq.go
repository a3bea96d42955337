package constants

// Обменник для событий об ошибках сервиса
const (
	ErrorsExchange     = "service_errors"
	ErrorsExchangeType = "topic"
)

// Ключи маршрутизации
const (
	RoutingKeyInternalError = "notify.property.internal_error"
)
