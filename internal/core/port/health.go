package port

import "context"

// HealthCheckerPort проверяет доступность хранилища
type HealthCheckerPort interface {
	Ping(ctx context.Context) error
}
