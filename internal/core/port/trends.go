package port

import (
	"context"
	"encoding/json"
)

// TrendsKind - вид внешнего запроса обогащения
type TrendsKind string

const (
	TrendsPopularity TrendsKind = "popularity_trends"
	TrendsArea       TrendsKind = "area_trends"
	TrendsContact    TrendsKind = "contact"
)

// TrendsClientPort - внешние сервисы трендов и контактов.
// Возвращает сырое JSON-тело ответа.
type TrendsClientPort interface {
	Fetch(ctx context.Context, kind TrendsKind, externalID string) (json.RawMessage, error)
}
