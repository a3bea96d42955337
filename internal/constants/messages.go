package constants

// Значения поля message в успешных ответах API
const (
	MessageFindAll         = "findAll"
	MessageFindOne         = "findOne"
	MessageSearch          = "search"
	MessageCount           = "count"
	MessageFeatured        = "featured"
	MessageSimilar         = "similar"
	MessageSuggestions     = "suggestions"
	MessageAvailableCities = "availableCities"
	MessageBest            = "best"
	MessageLocations       = "locations"
	MessageDictionaries    = "dictionaries"
	MessageHealthy         = "healthy"
)

// MessageInternalError - текст ответа 500, детали уходят только в лог и в отчет об ошибке
const MessageInternalError = "Internal server error"
