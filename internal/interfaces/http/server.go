// Package http provides the HTTP server adapter for the application layer.
// This is a thin adapter that translates HTTP requests to service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/project-approval/internal/application/port"
	"github.com/garyjia/project-approval/internal/application/service"
	"github.com/garyjia/project-approval/internal/report"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Services bundles the application services the adapter exposes
type Services struct {
	Project      *service.ProjectService
	Approval     service.ApprovalService
	Budget       *service.BudgetService
	KPI          *service.KPIService
	Analysis     *service.AnalysisService
	BudgetExport *report.BudgetExporter
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	verifier   port.IdentityVerifier
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, verifier port.IdentityVerifier, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		services: services,
		verifier: verifier,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.services, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")
	api.Use(s.authMiddleware())
	{
		api.POST("/projects", handlers.CreateProject)
		api.GET("/projects", handlers.ListProjects)
		api.GET("/projects/:id", handlers.GetProject)
		api.PUT("/projects/:id", handlers.UpdateProject)
		api.PUT("/projects/:id/phase", handlers.SetPhase)

		api.POST("/projects/:id/submit", handlers.Submit)
		api.POST("/projects/:id/reviewer-approve", handlers.ReviewerApprove)
		api.POST("/projects/:id/reviewer-reject", handlers.ReviewerReject)
		api.POST("/projects/:id/final-approve", handlers.FinalApprove)
		api.POST("/projects/:id/final-reject", handlers.FinalReject)
		api.POST("/projects/:id/resubmit", handlers.Resubmit)
		api.GET("/projects/:id/approval-status", handlers.ApprovalStatus)

		api.PUT("/projects/:id/budgets", handlers.UpsertBudget)
		api.DELETE("/projects/:id/budgets/:year/:month", handlers.DeleteBudget)
		api.GET("/projects/:id/budgets/summary", handlers.BudgetSummary)
		api.GET("/projects/:id/budgets/export", handlers.ExportBudget)

		api.POST("/projects/:id/kpi-reports", handlers.SaveKPIReport)
		api.GET("/projects/:id/kpi-reports", handlers.ListKPIReports)
		api.GET("/projects/:id/kpi-reports/required", handlers.RequiredKPITypes)

		api.POST("/projects/:id/analyze", handlers.AnalyzeDocument)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
