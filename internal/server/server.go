package server

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"trastienda/internal/config"
)

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds the HTTP server with timeouts taken from configuration.
// Timeouts are mandatory here: a ledger request stuck behind a slow client
// must not hold its row locks open indefinitely.
func New(cfg config.ServerConfig, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting server",
		zap.String("addr", s.httpServer.Addr),
		zap.Duration("readTimeout", s.httpServer.ReadTimeout),
		zap.Duration("writeTimeout", s.httpServer.WriteTimeout),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
