// Package http is the gin transport of the quote service: router, server
// lifecycle and the middleware chain wiring.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/hitokoto-service/internal/platform/config"
)

// Server owns the gin engine and the listener of the standalone process.
type Server struct {
	engine   *gin.Engine
	http     *http.Server
	listener net.Listener
	cfg      *config.ServerConfig
	logger   *slog.Logger
}

// New builds an idle server for cfg. Routes are added through Engine before
// Listen.
func New(cfg *config.ServerConfig, logger *slog.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	// X-Forwarded-For is honored only from these peers.
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			return nil, fmt.Errorf("setting trusted proxies: %w", err)
		}
	}

	engine.Use(limitBody(cfg.MaxRequestSize))

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Engine returns the gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Config returns the server configuration.
func (s *Server) Config() *config.ServerConfig {
	return s.cfg
}

// Listen binds the configured address. A port already in use is reported
// here, before the service announces itself.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.http.Addr, err)
	}

	s.listener = ln

	return nil
}

// Serve accepts connections in the background. The channel yields a serve
// failure, or is closed once Shutdown completes. Listen is called first when
// it has not been.
func (s *Server) Serve() <-chan error {
	errCh := make(chan error, 1)

	if s.listener == nil {
		if err := s.Listen(); err != nil {
			errCh <- err
			close(errCh)

			return errCh
		}
	}

	go func() {
		defer close(errCh)

		s.logger.Debug("serving HTTP",
			slog.String("addr", s.Addr()),
			slog.Duration("read_timeout", s.cfg.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.WriteTimeout),
		)

		if err := s.http.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	return errCh
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped")

	return nil
}

// Addr is the bound address once listening, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.http.Addr
}

// limitBody caps request bodies. No route reads one, so this only bounds
// what a misbehaving client can make the server buffer.
func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}

		c.Next()
	}
}
