package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/L3pereira/ndgms/internal/scheduler"
	"github.com/L3pereira/ndgms/pkg/log"
)

// Handler exposes scheduler introspection endpoints.
type Handler struct {
	scheduler scheduler.Scheduler
	logger    log.Logger
}

func New(s scheduler.Scheduler, logger log.Logger) *Handler {
	return &Handler{scheduler: s, logger: logger}
}

// ListJobs returns the status of every registered job.
func (h *Handler) ListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.scheduler.List()})
}

// GetJob returns one job's status.
func (h *Handler) GetJob(c *gin.Context) {
	status, err := h.scheduler.Status(c.Param("id"))
	if err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		h.logger.Errorf(c.Request.Context(), "internal.scheduler.delivery.http.handlers.GetJob.Status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status failed"})
		return
	}

	c.JSON(http.StatusOK, status)
}

// RemoveJob unregisters a job and stops its loop.
func (h *Handler) RemoveJob(c *gin.Context) {
	if err := h.scheduler.Remove(c.Param("id")); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		h.logger.Errorf(c.Request.Context(), "internal.scheduler.delivery.http.handlers.RemoveJob.Remove: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "remove failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": c.Param("id")})
}

// RegisterRoutes registers the scheduler routes.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	jobs := api.Group("/scheduler/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/:id", h.GetJob)
		jobs.DELETE("/:id", h.RemoveJob)
	}
}
