// Package httpapi exposes the draw report, frequency histograms and
// recommendations as JSON for a presentation layer.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kydenul/dlt"
)

// Server serves the JSON API
type Server struct {
	engine *dlt.Engine
	logger dlt.Logger
	router *gin.Engine
	http   *http.Server
}

// NewServer builds the router around engine
func NewServer(engine *dlt.Engine, logger dlt.Logger) *Server {
	if logger == nil {
		logger = &dlt.DefaultLogger{}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	s := &Server{engine: engine, logger: logger, router: router}

	api := router.Group("/api/v1")
	{
		api.GET("/draws", s.handleDraws)
		api.GET("/frequencies", s.handleFrequencies)
		api.GET("/recommendation", s.handleRecommendation)
		api.GET("/health", s.handleHealth)
		api.GET("/metrics", s.handleMetrics)
	}
	return s
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until Shutdown is called
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("HTTP API listening on %s", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func requestLogger(logger dlt.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s -> %d in %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
