package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// setupRoutes registers all HTTP routes and middleware
func (s *Server) setupRoutes() {
	r := s.engine
	r.Use(
		gin.CustomRecovery(func(c *gin.Context, err any) {
			s.log.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.AbortWithStatus(http.StatusInternalServerError)
		}),
		s.loggingMiddleware(),
		cors.New(s.corsConfig()),
	)

	r.GET("/health", s.handleHealth)

	api := r.Group("/api", gzip.Gzip(gzip.DefaultCompression))
	api.POST("/extract", s.handleExtract)
	api.GET("/records", s.handleListRecords)
	api.GET("/records/:id", s.handleGetRecord)
	api.DELETE("/records/:id", s.handleDeleteRecord)
	api.GET("/export.csv", s.handleExport)

	r.NoRoute(func(c *gin.Context) {
		s.respondError(c, http.StatusNotFound, "No such endpoint")
	})
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "X-Requested-With"},
		MaxAge:       time.Hour,
	}
	origins := s.config.AllowedOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

// loggingMiddleware logs every request with its status and latency
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Infof("%s %s from %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.ClientIP(), c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

// Start serves HTTP until SIGINT or SIGTERM, then shuts down gracefully
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Infof("PhysioFeat server starting on %s", addr)
	s.log.Infof("   Database: %s", s.config.DBPath)
	s.log.Infof("   CORS Origins: %v", s.config.AllowedOrigins)
	s.log.Infof("Endpoints:")
	s.log.Infof("   GET    /health              - Health check")
	s.log.Infof("   POST   /api/extract         - Extract and store one session")
	s.log.Infof("   GET    /api/records         - List stored records")
	s.log.Infof("   GET    /api/records/{id}    - Get record by ID")
	s.log.Infof("   DELETE /api/records/{id}    - Delete record by ID")
	s.log.Infof("   GET    /api/export.csv      - Export all records as CSV")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
