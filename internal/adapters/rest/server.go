package rest

import (
	"context"
	"net/http"
	core_port "property-service/internal/core/port"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type ServerConfig struct {
	Port             string
	AllowedOrigins   []string
	AllowCredentials bool
	// RequestTimeout <= 0 отключает middleware.Timeout
	RequestTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(cfg ServerConfig,
	propertyHandler *PropertyHandler,
	lookupHandler *LookupHandler,
	systemHandler *SystemHandler,
	baseLogger core_port.LoggerPort) *Server {

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, propertyHandler, lookupHandler, systemHandler, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		logger: baseLogger,
	}
}

// NewRouter собирает маршруты; вынесен отдельно для тестов через httptest
func NewRouter(cfg ServerConfig,
	propertyHandler *PropertyHandler,
	lookupHandler *LookupHandler,
	systemHandler *SystemHandler,
	baseLogger core_port.LoggerPort) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", systemHandler.Health)
	r.Get("/docs", systemHandler.Docs)

	r.Route("/property", func(r chi.Router) {
		r.Get("/", propertyHandler.FindAll)

		r.Get("/count", propertyHandler.Count)
		r.Get("/count/{city}", propertyHandler.Count)
		r.Get("/search", propertyHandler.Search)
		r.Get("/search/{city}", propertyHandler.Search)
		r.Get("/featured", propertyHandler.Featured)
		r.Get("/similar", propertyHandler.Similar)
		r.Get("/best", propertyHandler.Best)
		r.Get("/best/{city}", propertyHandler.Best)

		r.Get("/suggestions", lookupHandler.Suggestions)
		r.Get("/suggestions/{city}", lookupHandler.Suggestions)
		r.Get("/available-cities", lookupHandler.AvailableCities)
		r.Get("/locations", lookupHandler.Locations)
		r.Get("/dictionaries", lookupHandler.Dictionaries)

		// числовой id проверяется раньше, чем {city}
		r.Get("/{id:[0-9]+}", propertyHandler.FindOne)
		r.Get("/{city}", propertyHandler.FindAll)
	})

	return r
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
