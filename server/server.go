// Package server is the HTTP dashboard: HTML pages, the JSON API, chart
// PNGs, XLSX exports and the Prometheus endpoint.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lisacrebassa/pals-analysis/logging"
	"github.com/lisacrebassa/pals-analysis/render"
	"github.com/lisacrebassa/pals-analysis/views"
)

// RouterFunc yields the view router for a request. Servers with a preloaded
// store return the same router every time; the Lambda entry loads lazily.
type RouterFunc func(ctx context.Context) (*views.Router, error)

// Server serves the dashboard.
type Server struct {
	router RouterFunc
	logger *logging.Logger
	size   render.Size
	engine *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithChartSize sets the pixel size of chart PNGs.
func WithChartSize(size render.Size) Option {
	return func(s *Server) { s.size = size }
}

// New serves a router built over an already loaded store.
func New(router *views.Router, opts ...Option) *Server {
	return NewLazy(func(context.Context) (*views.Router, error) { return router, nil }, opts...)
}

// NewLazy serves whatever router fn returns; a load failure becomes a 503.
func NewLazy(fn RouterFunc, opts ...Option) *Server {
	s := &Server{
		router: fn,
		logger: logging.NewNop(),
		size:   render.DefaultSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the gin engine as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	g := gin.New()

	g.Use(requestID())
	g.Use(accessLog(s.logger))
	g.Use(gin.Recovery())

	g.NoMethod(func(c *gin.Context) { c.Redirect(http.StatusTemporaryRedirect, "/") })
	g.NoRoute(func(c *gin.Context) { c.Redirect(http.StatusTemporaryRedirect, "/") })

	g.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/views/"+string(views.Kinds()[0]))
	})
	g.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))

	g.GET("/views/:view", s.handlePage)
	g.GET("/api/views", s.handleViewList)
	g.GET("/api/views/:view", s.handleViewJSON)
	g.GET("/charts/:view/:section", s.handleChart)
	g.GET("/export/:view", s.handleExport)

	return g
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server")
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// ============================================================================
// MIDDLEWARE
// ============================================================================

const requestIDHeader = "X-Request-Id"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(l *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		l.Info("HTTP request", fields...)
	}
}
