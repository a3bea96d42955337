package rest

import (
	"context"
	"fmt"
	"net/http"
	"property-service/internal/constants"
	"property-service/internal/contextkeys"
	"property-service/internal/core/port"
	"time"

	scalargo "github.com/bdpiprava/scalar-go"
)

const healthCheckTimeout = 2 * time.Second

type SystemHandler struct {
	db      port.HealthCheckerPort
	specDir string
	title   string
}

// NewSystemHandler: specDir - каталог с api.yaml для страницы документации
func NewSystemHandler(db port.HealthCheckerPort, specDir, title string) *SystemHandler {
	return &SystemHandler{db: db, specDir: specDir, title: title}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Health check failed", err, nil)
		RespondWithJSON(w, http.StatusServiceUnavailable, Envelope{
			Data:    HealthResponse{Status: "degraded", Database: "unreachable"},
			Message: "unhealthy",
		})
		return
	}
	RespondWithData(w, HealthResponse{Status: "ok", Database: "ok"}, constants.MessageHealthy)
}

// Docs отдает страницу Scalar API Reference по спецификации из specDir
func (h *SystemHandler) Docs(w http.ResponseWriter, r *http.Request) {
	html, err := scalargo.NewV2(
		scalargo.WithSpecDir(h.specDir),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle(h.title),
		),
	)
	if err != nil {
		contextkeys.LoggerFromContext(r.Context()).Error("Failed to render API docs", err, port.Fields{"spec_dir": h.specDir})
		WriteJSONError(w, http.StatusInternalServerError, "Failed to render API docs")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, html)
}
