package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/embedd/internal/embeddings"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// Model is the configured model identifier, reported by GET /info.
	Model string

	// MaxTokens is the maximum input sequence length, reported by GET /info.
	MaxTokens int
}

// Server provides the embedd HTTP endpoints.
type Server struct {
	echo     *echo.Echo
	embedder embeddings.Embedder
	logger   *zap.Logger
	config   *Config
}

// NewServer creates a new HTTP server.
//
// The embedder is injected so tests can substitute a double; production
// wiring passes an embeddings.Lazy so the model loads at most once.
func NewServer(embedder embeddings.Embedder, logger *zap.Logger, cfg *Config, metrics *HTTPMetrics) (*Server, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host:      "0.0.0.0",
			Port:      8080,
			Model:     embeddings.DefaultModel,
			MaxTokens: 256,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if metrics != nil {
		e.Use(metrics.MetricsMiddleware())
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
		echo:     e,
		embedder: embedder,
		logger:   logger,
		config:   cfg,
	}

	s.registerRoutes()

	return s, nil
}

// Echo exposes the underlying router so the entrypoint can attach
// additional handlers (the /metrics endpoint).
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/info", s.handleInfo)
	s.echo.POST("/embed", s.handleEmbed)
}

// handleHealth returns a simple health check response.
// Never depends on embedder state.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleInfo reports the configured model and its declared properties.
// Dimension comes from the model table, so it is correct for any
// configured model without forcing a model load.
func (s *Server) handleInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, InfoResponse{
		Model:      s.config.Model,
		Dimensions: s.embedder.Dimension(),
		MaxTokens:  s.config.MaxTokens,
	})
}

// handleEmbed generates embeddings for the submitted text or texts.
func (s *Server) handleEmbed(c echo.Context) error {
	var req EmbedRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No JSON body provided"})
	}

	texts, ok := req.batch()
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Provide 'text' or 'texts' field"})
	}

	// Empty batch short-circuits without touching the embedder, so it can
	// never trigger a model load.
	if len(texts) == 0 {
		return c.JSON(http.StatusOK, EmbedResponse{
			Embeddings: make([][]float32, 0),
			Dimensions: s.embedder.Dimension(),
		})
	}

	vectors, err := s.embedder.Embed(c.Request().Context(), texts)
	if err != nil {
		s.logger.Error("embedding generation failed",
			zap.Int("batch_size", len(texts)),
			zap.Error(err))
		// The raw error message is returned on purpose: no secrets flow
		// through this service and the message aids local debugging.
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	// Dimensions reflects the actual output width when results exist.
	dimensions := s.embedder.Dimension()
	if len(vectors) > 0 {
		dimensions = len(vectors[0])
	}

	return c.JSON(http.StatusOK, EmbedResponse{
		Embeddings: vectors,
		Dimensions: dimensions,
	})
}

// Start starts the HTTP server and blocks until ctx is cancelled.
//
// On cancellation the server performs graceful shutdown bounded by
// shutdownTimeout. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start(ctx context.Context, shutdownTimeout time.Duration) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server start: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return http.ErrServerClosed
	}
}
