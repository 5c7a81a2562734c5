// Package httpapi exposes pkg/engine.Engine over HTTP. It is a pure
// consumer of the engine: nothing in the deterministic core imports this
// package.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/domainlens/domainlens/pkg/engine"
)

// Server holds the state for the REST and websocket API.
type Server struct {
	engine   *engine.Engine
	router   *gin.Engine
	upgrader websocket.Upgrader
}

// NewServer builds a Server around e with routes already registered.
func NewServer(e *engine.Engine) *Server {
	s := &Server{
		engine: e,
		router: gin.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
	s.setupRoutes()
	return s
}

// Run starts the server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.POST("/v1/analyze", s.handleAnalyze)
	s.router.POST("/v1/impact", s.handleImpact)
	s.router.GET("/v1/progress", s.handleProgress)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.engine.Metrics().Registry, promhttp.HandlerOpts{})))
}

func (s *Server) healthCheck(c *gin.Context) {
	c.Status(200)
}
