package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the ingestion and earthquake query routes.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	ingestion := api.Group("/ingestion")
	{
		ingestion.POST("/trigger", h.TriggerIngestion)
	}

	earthquakes := api.Group("/earthquakes")
	{
		earthquakes.GET("", h.ListEarthquakes)
		earthquakes.GET("/:id", h.GetEarthquake)
	}
}
