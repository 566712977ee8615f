package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// healthCheck reports service liveness plus hub counters.
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	stats := srv.wsUC.Stats(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"service":            "ndgms",
		"active_connections": stats.ActiveConnections,
		"event_subscribers":  stats.EventSubscribers,
		"alert_subscribers":  stats.AlertSubscribers,
	})
}
