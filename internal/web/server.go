// Package web serves the figure, the summary and metrics over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"missviz/internal/config"
)

//go:embed static/*
var staticFS embed.FS

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     config.Config
	router     http.Handler
	httpServer *http.Server
	registry   *prometheus.Registry
	metrics    *Metrics
	logger     *zap.Logger
}

// NewServer builds a server for cfg with its own metrics registry.
func NewServer(cfg config.Config, l *zap.Logger) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	s := &Server{
		config:   cfg,
		registry: reg,
		metrics:  NewMetrics(reg),
		logger:   l,
	}
	s.router = s.setupRouter()
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.config.WebAddr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// StartServer runs the preview server until SIGINT or SIGTERM.
func StartServer(cfg config.Config, logger *zap.Logger) error {
	server := NewServer(cfg, logger)

	errc := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	logger.Info("web server started", zap.String("addr", cfg.WebAddr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errc:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down web server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info("web server exiting")
	return nil
}
