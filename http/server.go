package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"loanbook/service"
)

// ServerConfig holds everything the HTTP server needs.
type ServerConfig struct {
	Port          int
	DevMode       bool
	APIRatePerMin int
	Log           zerolog.Logger
	Loans         *service.LoanService
	Payoff        *service.PayoffService
}

// Server is the HTTP front end: HTML pages at the root, JSON API under /api.
type Server struct {
	router  *chi.Mux
	server  *http.Server
	limiter *RateLimiter
	log     zerolog.Logger
}

// NewServer builds the router, middleware, and handlers.
func NewServer(cfg ServerConfig) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		limiter: NewRateLimiter(cfg.APIRatePerMin, time.Minute),
		log:     cfg.Log.With().Str("component", "server").Logger(),
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
	if !cfg.DevMode {
		s.router.Use(middleware.Compress(5))
	}

	pages := NewLoanHandler(cfg.Loans, cfg.Log)
	api := NewAPIHandler(cfg.Loans, cfg.Payoff, cfg.Log)

	s.router.Get("/health", s.handleHealth)

	s.router.Get("/", pages.Index)
	s.router.Get("/loans/new", pages.NewForm)
	s.router.Post("/loans/new", pages.Create)
	s.router.Route("/loan/{id}", func(r chi.Router) {
		r.Get("/", pages.Show)
		r.Get("/edit", pages.EditForm)
		r.Post("/edit", pages.Update)
		r.Post("/delete", pages.Delete)
		r.Get("/payment", pages.PaymentForm)
		r.Post("/payment", pages.AddPayment)
		r.Get("/payment/{index}/edit", pages.EditPaymentForm)
		r.Post("/payment/{index}/edit", pages.UpdatePayment)
		r.Post("/payment/{index}/delete", pages.DeletePayment)
		r.Get("/download", pages.Download)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Use(RateLimit(s.limiter))
		r.Post("/loan/calculate", api.Calculate)
		r.Post("/loan/{id}/payoff", api.Payoff)
	})

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains the server and stops the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	s.limiter.Stop()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"healthy","service":"loanbook"}`))
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request")
	})
}
