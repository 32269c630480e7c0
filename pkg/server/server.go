package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultName    = "ssminv-server"
	defaultVersion = "dev"
)

// Server is the HTTP server hosting the API routes plus the system
// endpoints (/health, /ready, /metrics).
type Server struct {
	name    string
	version string
	config  *Config

	// handlers maps a path pattern (as accepted by http.ServeMux) to its handler.
	handlers map[string]http.HandlerFunc

	rateLimiter *rate.Limiter
	httpServer  *http.Server

	mu    sync.RWMutex
	ready bool
}

// Option configures a Server.
type Option func(*Server)

// WithName sets the server name reported by the root route.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithVersion sets the version reported by the root route.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithHandler adds API routes. Each is wrapped with the request middleware.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		for pattern, h := range handlers {
			s.handlers[pattern] = h
		}
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// New creates a Server. Without WithConfig, DefaultConfig is used.
func New(opts ...Option) *Server {
	s := &Server{
		name:     defaultName,
		version:  defaultVersion,
		handlers: map[string]http.HandlerFunc{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}

	burst := s.config.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}
	limit := s.config.RateLimit
	if limit <= 0 {
		limit = rate.Inf
	}
	s.rateLimiter = rate.NewLimiter(limit, burst)

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(s.config.Address, strconv.Itoa(s.config.Port)),
		Handler:           s.setupRoutes(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	return s
}

// Handler returns the routed handler, including middleware.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// IsReady reports whether the server is accepting API traffic.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Server) setReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

// Run listens until ctx is canceled or SIGINT/SIGTERM arrives, then shuts
// down gracefully within Config.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server listening",
			slog.String("name", s.name),
			slog.String("version", s.version),
			slog.String("address", ln.Addr().String()),
		)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	s.setReady(true)
	notify(daemon.SdNotifyReady)

	g.Go(func() error {
		<-gctx.Done()
		s.setReady(false)
		notify(daemon.SdNotifyStopping)

		slog.Info("shutting down server", slog.Duration("timeout", s.config.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// notify is a no-op outside systemd (NOTIFY_SOCKET unset).
func notify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		slog.Warn("failed to notify systemd", slog.String("state", state), "error", err)
		return
	}
	if sent {
		slog.Debug("notified systemd", slog.String("state", state))
	}
}
