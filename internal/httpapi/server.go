// Package httpapi provides the HTTP API for testsmith.
package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ashgrovelabs/testsmith/internal/generator"
	"github.com/ashgrovelabs/testsmith/internal/retrieval"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// ServiceName and Version are reported by GET /.
	ServiceName string
	Version     string

	// AppName labels retrieved context in RAG prompts.
	AppName string

	// LLMConfigured is surfaced by GET /health so callers can tell a
	// missing API key apart from a broken daemon.
	LLMConfigured bool
}

// Server exposes the test-generation API.
type Server struct {
	echo      *echo.Echo
	logger    *zap.Logger
	config    *Config
	generator *generator.Generator
	assembler *retrieval.Assembler
	metrics   *Metrics
}

// NewServer creates the HTTP server. assembler may be nil, in which case
// the RAG endpoint degrades to contextless generation.
func NewServer(gen *generator.Generator, assembler *retrieval.Assembler, metrics *Metrics, logger *zap.Logger, cfg *Config) (*Server, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8000}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	if metrics != nil {
		e.Use(metrics.Middleware())
	}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:      e,
		logger:    logger,
		config:    cfg,
		generator: gen,
		assembler: assembler,
		metrics:   metrics,
	}
	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleRoot)
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.POST("/generate-test", s.handleGenerateTest)
	s.echo.POST("/generate-test-with-rag", s.handleGenerateTestWithRAG)
	s.echo.POST("/generate-tests-batch", s.handleGenerateTestsBatch)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
