// Package httpapi exposes the search index over HTTP: passthrough Solr
// queries, faceted stats, filename suggestions, and thumbnail serving.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/nasdex/indexer/internal/errors"
	"github.com/nasdex/indexer/internal/nasindex/conf"
	"github.com/nasdex/indexer/internal/nasindex/index"
	"github.com/nasdex/indexer/internal/nasindex/store"
)

// Service wires the gin router to the index and state store, mirroring
// the teacher's gin.New + explicit middleware stack.
type Service struct {
	cfg *conf.Config
	idx index.Index
	st  store.Store

	router *gin.Engine
	server *http.Server
}

// NewService builds the router and registers every route up front.
func NewService(cfg *conf.Config, idx index.Index, st store.Store) *Service {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Err(err).Msg("failed to set trusted proxies")
	}

	router.Use(
		apperrors.RecoveryMiddleware(),
		apperrors.ErrorHandlerMiddleware(),
		gin.LoggerWithWriter(log.Logger, "/health"),
		corsMiddleware(),
	)

	s := &Service{cfg: cfg, idx: idx, st: st, router: router}
	s.initRouter()
	return s
}

// Start launches the HTTP server in the background, matching the
// teacher's non-blocking Start/Stop split.
func (s *Service) Start() error {
	s.server = &http.Server{Addr: s.cfg.HTTPAddr, Handler: s.router}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Err(err).Msg("HTTP server stopped unexpectedly")
		}
	}()

	log.Info().Str("addr", s.cfg.HTTPAddr).Msg("starting search API")
	return nil
}

// Stop gracefully shuts the server down within a short deadline.
func (s *Service) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Debug().Err(err).Msg("failed to shut down HTTP server cleanly")
		return nil
	}
	log.Info().Msg("search API stopped")
	return nil
}

// Router exposes the underlying gin engine, primarily for tests.
func (s *Service) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
