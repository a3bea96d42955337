package rest

// Envelope - формат успешного ответа
type Envelope struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// ErrorResponse - формат ответа с ошибкой
type ErrorResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
