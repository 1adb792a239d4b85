package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/ShareBridge/internal/api/http"
	"github.com/GriffinCanCode/ShareBridge/internal/api/middleware"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/monitoring"
)

const shutdownTimeout = 10 * time.Second

// Deps are the collaborators the server routes to.
type Deps struct {
	Runner    apihttp.Runner
	Store     apihttp.StoreLoader
	LocalOpen func(string) error
	Logger    *logging.Logger
	Metrics   *monitoring.Metrics
	Registry  prometheus.Gatherer
}

// Server wraps the HTTP server and dependencies
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *logging.Logger
	config *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Runner == nil {
		return nil, errors.New("server: runner is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing share-target server",
		zap.String("port", cfg.Server.Port),
		zap.String("page_base_url", cfg.Share.PageBaseURL),
		zap.Bool("local_open", deps.LocalOpen != nil),
	)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	if deps.Metrics != nil {
		router.Use(monitoring.Middleware(deps.Metrics))
	}
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if rps := cfg.RateLimit.GlobalRequestsPerSecond; rps > 0 {
		logger.Info("Global rate limiting enabled",
			zap.Int("rps", rps),
			zap.Int("burst", cfg.RateLimit.GlobalBurst),
		)
		router.Use(middleware.GlobalRateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: rps,
			Burst:             cfg.RateLimit.GlobalBurst,
		}))
	}
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(apihttp.Options{
		Runner:    deps.Runner,
		Store:     deps.Store,
		LocalOpen: deps.LocalOpen,
		Logger:    logger,
	})
	handlers.Register(router)

	if deps.Registry != nil {
		router.GET("/metrics", gin.WrapH(monitoring.Handler(deps.Registry)))
	}

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	return &Server{
		router: router,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
		config: cfg,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		return s.Close()
	}
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	// Sync logger before exit
	_ = s.logger.Sync()
	return nil
}
