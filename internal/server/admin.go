package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danmuck/wirectl/internal/observability"
)

// AdminRouter exposes the operator surface: health, stats, and prometheus
// metrics. It serves no protocol traffic.
func (s *Server) AdminRouter() *gin.Engine {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.startedAt).String(),
			"service": "wirectl",
			"state":   s.stateName(),
		})
	})

	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"addr":                 s.ln.Addr().String(),
			"state":                s.stateName(),
			"uptime":               time.Since(s.startedAt).String(),
			"accepted_connections": s.acceptedConns.Load(),
			"active_connections":   s.activeConns.Load(),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// ServeAdmin blocks serving the admin surface on addr.
func (s *Server) ServeAdmin(addr string) error {
	return s.AdminRouter().Run(addr)
}
