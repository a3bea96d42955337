package rest

import (
	"encoding/json"
	"net/http"
)

// WriteJSONError отправляет {"message": ...} с заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Message: message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// RespondWithData оборачивает успешный ответ в {"data", "message"}
func RespondWithData(w http.ResponseWriter, data interface{}, message string) {
	RespondWithJSON(w, http.StatusOK, Envelope{Data: data, Message: message})
}
