package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/termflow/termflow/backend/internal/api/http"
	"github.com/termflow/termflow/backend/internal/api/middleware"
	"github.com/termflow/termflow/backend/internal/api/ws"
	"github.com/termflow/termflow/backend/internal/domain/flow"
	"github.com/termflow/termflow/backend/internal/domain/graph"
	"github.com/termflow/termflow/backend/internal/domain/session"
	"github.com/termflow/termflow/backend/internal/infrastructure/config"
	"github.com/termflow/termflow/backend/internal/infrastructure/logging"
	"github.com/termflow/termflow/backend/internal/infrastructure/monitoring"
	"github.com/termflow/termflow/backend/internal/providers/terminal"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router    *gin.Engine
	runner    *terminal.Runner
	service   *flow.Service
	snapshots *session.Manager
	hub       *ws.Hub
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing TermFlow Server",
		zap.String("port", cfg.Server.Port),
		zap.String("shell", cfg.Terminal.Shell),
		zap.String("storage", cfg.Storage.Path),
	)

	metrics := monitoring.NewMetrics()

	// Graph core
	parser := graph.NewParser()
	store := graph.NewStore()

	// Terminal provider
	runner := terminal.NewRunner(terminal.Config{
		Shell:          cfg.Terminal.Shell,
		Timeout:        cfg.Terminal.Timeout,
		MaxOutputBytes: cfg.Terminal.MaxOutputBytes,
	})

	service := flow.NewService(runner, parser, store, metrics, logger)

	// Snapshot persistence
	snapshots, err := session.NewManager(store, parser, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot manager: %w", err)
	}
	logger.Info("Snapshot storage ready", zap.String("dir", cfg.Storage.Path))

	hub := ws.NewHub(logger, metrics)

	// Router and middleware
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
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

	// Handlers
	handlers := http.NewHandlers(service, snapshots, hub, metrics)
	wsHandler := ws.NewHandler(hub, service, logger, metrics)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Graph operations
	router.POST("/execute", handlers.Execute)
	router.GET("/graph", handlers.GetGraph)
	router.DELETE("/graph", handlers.ClearGraph)
	router.GET("/search", handlers.Search)

	// Snapshot endpoints
	router.POST("/snapshots", handlers.SaveSnapshot)
	router.GET("/snapshots", handlers.ListSnapshots)
	router.GET("/snapshots/:id", handlers.GetSnapshot)
	router.POST("/snapshots/:id/restore", handlers.RestoreSnapshot)
	router.DELETE("/snapshots/:id", handlers.DeleteSnapshot)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:    router,
		runner:    runner,
		service:   service,
		snapshots: snapshots,
		hub:       hub,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}, nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	for _, info := range s.runner.List() {
		if s.runner.Kill(info.ID) {
			s.logger.Info("Killed shell session", zap.String("session_id", info.ID))
		}
	}

	s.logger.Sync()
	return nil
}
