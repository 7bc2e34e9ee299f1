// Package server serves the interactive company dashboard.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ppiankov/reviewlens/internal/pipeline"
	"github.com/ppiankov/reviewlens/internal/worker"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
)

// Server is the dashboard HTTP server
type Server struct {
	pipeline        *pipeline.Pipeline
	limiter         *worker.Limiter
	logger          *slog.Logger
	addr            string
	shutdownTimeout time.Duration
	maxConnections  int
	page            *pageRenderer
}

// Config holds configuration for the dashboard server
type Config struct {
	Pipeline          *pipeline.Pipeline
	Logger            *slog.Logger
	Addr              string
	RequestsPerSecond float64
	Burst             int
	ShutdownTimeout   time.Duration
	MaxConnections    int // 0 is unlimited
}

// NewServer creates a dashboard server
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Server{
		pipeline:        cfg.Pipeline,
		limiter:         worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		logger:          logger,
		addr:            cfg.Addr,
		shutdownTimeout: timeout,
		maxConnections:  cfg.MaxConnections,
		page:            newPageRenderer(),
	}
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.logRequests,
		middleware.Recoverer,
		s.rateLimit,
	)

	r.Get("/", s.handleDashboard)
	r.Get("/wordcloud.svg", s.handleWordCloud)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/companies", s.handleCompanies)
		r.Get("/summary", s.handleSummary)
	})

	return r
}

// Serve listens on the configured address and blocks until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := s.listen()
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

// listen opens the listener, capped at maxConnections when set
func (s *Server) listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	if s.maxConnections > 0 {
		ln = netutil.LimitListener(ln, s.maxConnections)
	}
	return ln, nil
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting dashboard", "addr", ln.Addr().String(), "companies", len(s.pipeline.Names()))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down dashboard")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// logRequests logs one line per request once it completes
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			s.logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// rateLimit rejects clients that exceed their token bucket
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(worker.ClientKey(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
