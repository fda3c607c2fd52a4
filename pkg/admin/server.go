// Package admin serves the metrics endpoint and a small inspection API
// over the message catalog.
package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nm-morais/go-golem/pkg/logs"
	"github.com/nm-morais/go-golem/pkg/serializationManager"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const adminCaller = "Admin"

type Server struct {
	registry   serializationManager.SerializationManager
	gatherer   prometheus.Gatherer
	router     *gin.Engine
	addr       string
	httpServer *http.Server
	logger     *log.Logger
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewServer builds the router. A nil gatherer serves the default
// prometheus registry.
func NewServer(addr string, registry serializationManager.SerializationManager, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		registry: registry,
		gatherer: gatherer,
		router:   gin.New(),
		addr:     addr,
		logger:   logs.NewLogger(adminCaller),
	}
	s.router.Use(s.loggingMiddleware(), gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/messages", s.handleMessages)
		v1.GET("/messages/:id", s.handleMessage)
		v1.POST("/decode", s.handleDecode)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.WithFields(log.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debugf("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "messages": len(s.registry.IDs())})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("admin API listening on %s", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
