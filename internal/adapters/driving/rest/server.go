package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driving"
	"github.com/custodia-labs/lexbase/internal/logger"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 15 * time.Second

// Ports holds the services exposed over HTTP.
type Ports struct {
	Ingestion driving.IngestionService
	Documents driving.DocumentService
	Tokens    TokenVerifier
}

// Server is the inbound HTTP API.
type Server struct {
	ingestion     driving.IngestionService
	documents     driving.DocumentService
	router        *gin.Engine
	maxUploadSize int
}

// Option configures a Server.
type Option func(*Server)

// WithMaxUploadSize overrides the upload ceiling in bytes.
func WithMaxUploadSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadSize = n
		}
	}
}

// NewServer builds the router. All ports are required.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if ports == nil || ports.Ingestion == nil || ports.Documents == nil || ports.Tokens == nil {
		return nil, errors.New("rest: ingestion, documents and token ports are required")
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		ingestion:     ports.Ingestion,
		documents:     ports.Documents,
		maxUploadSize: domain.MaxUploadSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.MaxMultipartMemory = int64(s.maxUploadSize + multipartOverhead)

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api/v1/rag")
	api.Use(authMiddleware(ports.Tokens))
	{
		api.POST("/import", s.handleImport)
		api.GET("/documents", s.handleListDocuments)
		api.GET("/documents/:id", s.handleGetDocument)
		api.POST("/documents/:id/embed", s.handleRetryEmbedding)
	}

	s.router = router
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
