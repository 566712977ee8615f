package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the WebSocket routes.
func (h *Handler) RegisterRoutes(r *gin.Engine, api *gin.RouterGroup) {
	r.GET("/ws", h.HandleWebSocket)

	wsGroup := api.Group("/ws")
	{
		wsGroup.GET("/stats", h.Stats)
	}
}
