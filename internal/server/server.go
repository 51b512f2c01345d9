// Package server provides the HTTP server and routing for TickerMood.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/tickermood/tickermood/internal/database"
	"github.com/tickermood/tickermood/internal/modules/ingest"
	"github.com/tickermood/tickermood/internal/modules/sentiment"
	"github.com/tickermood/tickermood/internal/modules/symbols"
	"github.com/tickermood/tickermood/internal/modules/trends"
)

// Config holds server configuration
type Config struct {
	Port     int
	Log      zerolog.Logger
	DB       *database.DB
	Engine   *sentiment.Engine
	Pipeline *sentiment.Pipeline
	Trends   *trends.Service
	Ingest   *ingest.Service
	Symbols  *symbols.Repository
	DevMode  bool

	// ScoreBatchSize is the default batch for POST /api/sentiment/process
	ScoreBatchSize int
	// NewsDaysBack is the window for POST /api/stocks/refresh
	NewsDaysBack int
}

// Server represents the HTTP server
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	db       *database.DB
	handlers *Handlers
	port     int
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		db:     cfg.DB,
		port:   cfg.Port,
		handlers: NewHandlers(HandlersConfig{
			Log:            cfg.Log,
			Engine:         cfg.Engine,
			Pipeline:       cfg.Pipeline,
			Trends:         cfg.Trends,
			Ingest:         cfg.Ingest,
			Symbols:        cfg.Symbols,
			ScoreBatchSize: cfg.ScoreBatchSize,
			NewsDaysBack:   cfg.NewsDaysBack,
		}),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Router returns the configured router, used by handler tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/sentiment", func(r chi.Router) {
			r.Get("/stock/{symbol}", s.handlers.HandleStockSentiment)
			r.Get("/stock/{symbol}/articles", s.handlers.HandleStockArticles)
			r.Get("/trending", s.handlers.HandleTrending)
			r.Get("/summary", s.handlers.HandleSummary)
			r.Post("/analyze", s.handlers.HandleAnalyze)
			r.Post("/process", s.handlers.HandleProcess)
		})

		r.Route("/stocks", func(r chi.Router) {
			r.Get("/list", s.handlers.HandleStockList)
			r.Post("/refresh/{symbol}", s.handlers.HandleRefresh)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth reports liveness, including the database connection.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK

	if err := s.db.HealthCheck(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
		s.log.Error().Err(err).Msg("Health check failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"status":%q}`, status)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
