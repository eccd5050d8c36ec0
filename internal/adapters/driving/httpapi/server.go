package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driving"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/logger"
)

// shutdownTimeout bounds graceful shutdown once the serve context ends.
const shutdownTimeout = 10 * time.Second

// Dependencies are the services the HTTP API drives.
type Dependencies struct {
	Ingest driving.IngestService
	Index  driving.IndexService
	Query  driving.QueryService
}

// Server is the HTTP API.
type Server struct {
	settings domain.ServerSettings
	deps     Dependencies
	router   *gin.Engine
	limiter  *clientLimiter
}

// New builds the router. Zero settings fall back to the defaults; a zero
// RateLimit disables rate limiting.
func New(settings domain.ServerSettings, deps Dependencies) (*Server, error) {
	if deps.Ingest == nil || deps.Index == nil || deps.Query == nil {
		return nil, errors.New("httpapi: ingest, index and query services are required")
	}

	if settings.Addr == "" {
		settings.Addr = domain.DefaultServerAddr
	}
	if settings.MaxUploadMB <= 0 {
		settings.MaxUploadMB = domain.DefaultMaxUploadMB
	}
	if settings.RequestTimeout <= 0 {
		settings.RequestTimeout = domain.DefaultRequestTimeout
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		settings: settings,
		deps:     deps,
		router:   gin.New(),
	}
	if settings.RateLimit > 0 {
		s.limiter = newClientLimiter(settings.RateLimit, settings.Burst)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(loggingMiddleware())
	if s.limiter != nil {
		s.router.Use(rateLimitMiddleware(s.limiter))
	}
	s.router.Use(timeoutMiddleware(s.settings.RequestTimeout))
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.health)

	maxBody := int64(s.settings.MaxUploadMB) << 20
	s.router.POST("/upload-pdf/", bodyLimitMiddleware(maxBody), s.uploadPDF)
	s.router.POST("/reset-db/", s.resetDB)
	s.router.POST("/query-pdf/", s.queryPDF)
}

// Handler returns the router for tests and custom servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.settings.Addr
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.settings.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.settings.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully, letting in-flight requests finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	logger.Info("HTTP API stopped")
	return nil
}
