package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/rpgo/networth-projector/internal/calculation"
	"github.com/rpgo/networth-projector/internal/config"
)

const (
	defaultSimulations = 1000
	maxBodyBytes       = 1 << 20
	cacheCleanup       = 30 * time.Minute
)

// Server exposes the in-process projection engine over HTTP
type Server struct {
	cfg     *config.AppConfig
	parser  *config.InputParser
	engine  *calculation.ProjectionEngine
	mc      *calculation.MonteCarloOrchestrator
	cache   *cache.Cache
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a server. historical may be nil, which disables historical mode.
func New(cfg *config.AppConfig, logger *slog.Logger, historical *calculation.HistoricalDataManager) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	engine := calculation.NewProjectionEngine()
	engine.SetLogger(calculation.NewSlogLogger(logger))
	mc := calculation.NewMonteCarloOrchestrator(engine, historical)

	return &Server{
		cfg:     cfg,
		parser:  config.NewInputParser(),
		engine:  engine,
		mc:      mc,
		cache:   cache.New(cfg.CacheTTL, cacheCleanup),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		logger:  logger,
	}
}

// Routes builds the chi router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.contextualLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/jurisdictions", s.handleJurisdictions)
		r.Get("/formats", s.handleFormats)
		r.Post("/projections", s.handleProjection)
		r.With(s.rateLimit).Post("/montecarlo", s.handleMonteCarlo)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		sendJSONError(r.Context(), w, "not found", http.StatusNotFound)
	})
	return r
}

// HTTPServer wraps Routes in an http.Server with the service timeouts
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
