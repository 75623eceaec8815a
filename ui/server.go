// Package ui exposes the workbench over HTTP: a gin API for the
// simulation operations and a small chi router for operational probes.
package ui

import (
	"net/http"
	"time"

	"simlab/app"
	"simlab/internal"

	"github.com/gin-gonic/gin"
)

// Server is the public HTTP face of the workbench.
type Server struct {
	router  *gin.Engine
	api     *APIHandler
	docs    *DocsHandler
	started time.Time
	log     *internal.Logger
}

// NewServer wires the API routes. Set gin's mode before calling this.
func NewServer(service *app.WorkbenchService, runner *app.BatchRunner, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  gin.Default(),
		api:     NewAPIHandler(service, runner, logger),
		docs:    NewDocsHandler(),
		started: time.Now(),
		log:     logger.WithTag("API"),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/generate", s.api.HandleGenerate())
		api.POST("/fit", s.api.HandleFit())
		api.POST("/samples/load", s.api.HandleLoadSample())

		api.GET("/experiments", s.api.HandleExperimentList())
		api.POST("/experiments/batch", s.api.HandleBatch())
		api.POST("/experiments/:kind", s.api.HandleExperiment())

		api.GET("/runs", s.api.HandleRuns())
		api.GET("/runs/:id", s.api.HandleRunByID())

		api.GET("/docs", s.docs.HandleTopicList())
		api.GET("/docs/:topic", s.docs.HandleTopic())
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.started).Truncate(time.Second).String(),
	})
}

// Router exposes the underlying handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start blocks serving the API on addr.
func (s *Server) Start(addr string) error {
	s.log.Info("listening on %s", addr)
	return s.router.Run(addr)
}
