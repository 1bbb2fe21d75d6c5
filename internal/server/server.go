// Package server exposes generation over HTTP.
package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"personagen/internal/config"
	"personagen/internal/persona"
	"personagen/internal/provider"
)

// ProviderFactory builds a provider for one request. Injected so tests
// can run the full handler path without network access.
type ProviderFactory func(ctx context.Context, model string) (provider.Provider, error)

// Server wires the persona builder, provider, and store behind a gin
// router.
type Server struct {
	cfg         *config.Config
	log         *zap.Logger
	builder     *persona.Builder
	newProvider ProviderFactory
}

// New builds a server over the given config. The default provider
// factory creates a Gemini client with the configured API key.
func New(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:     cfg,
		log:     log,
		builder: persona.NewBuilder(),
	}
	s.newProvider = func(ctx context.Context, model string) (provider.Provider, error) {
		return provider.NewGeminiClient(ctx, cfg.Provider.APIKey, model)
	}
	return s
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/generate", s.handleGenerate)
	r.GET("/health", s.handleHealth)
	r.GET("/info", s.handleInfo)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":               "Not Found",
			"message":             "The requested endpoint does not exist",
			"available_endpoints": []string{"/generate", "/health", "/info"},
		})
	})
	return r
}

// Run starts the HTTP server on the given address.
func (s *Server) Run(addr string) error {
	s.log.Info("starting HTTP server", zap.String("addr", addr))
	return s.Router().Run(addr)
}
