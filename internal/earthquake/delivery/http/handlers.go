package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/L3pereira/ndgms/internal/earthquake/repository"
)

// TriggerIngestion runs one ingestion pass immediately. It shares the
// deduplication path with the scheduled job, so racing the scheduler at
// worst produces duplicate skips, never duplicate events.
func (h *Handler) TriggerIngestion(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.uc.RunScheduledIngestion(ctx)
	if err != nil {
		h.metrics.IngestionRuns.WithLabelValues("manual", "error").Inc()
		h.logger.Errorf(ctx, "internal.earthquake.delivery.http.handlers.TriggerIngestion.RunScheduledIngestion: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "external feed unavailable"})
		return
	}

	h.metrics.IngestionRuns.WithLabelValues("manual", "ok").Inc()
	c.JSON(http.StatusOK, result)
}

// ListEarthquakes queries persisted earthquakes by magnitude and time
// bounds. All parameters are optional: min_magnitude, max_magnitude,
// start, end (RFC 3339), limit.
func (h *Handler) ListEarthquakes(c *gin.Context) {
	ctx := c.Request.Context()

	opts, err := parseRangeOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.repo.FindByMagnitudeRange(ctx, opts)
	if err != nil {
		h.logger.Errorf(ctx, "internal.earthquake.delivery.http.handlers.ListEarthquakes.FindByMagnitudeRange: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(events), "earthquakes": events})
}

// GetEarthquake returns one earthquake by id.
func (h *Handler) GetEarthquake(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	eq, err := h.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "earthquake not found"})
			return
		}
		h.logger.Errorf(ctx, "internal.earthquake.delivery.http.handlers.GetEarthquake.FindByID: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, eq)
}

func parseRangeOptions(c *gin.Context) (repository.MagnitudeRangeOptions, error) {
	var opts repository.MagnitudeRangeOptions

	if v := c.Query("min_magnitude"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New("invalid min_magnitude")
		}
		opts.MinMagnitude = f
	}
	if v := c.Query("max_magnitude"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New("invalid max_magnitude")
		}
		opts.MaxMagnitude = &f
	}
	if v := c.Query("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return opts, errors.New("invalid start time")
		}
		opts.Start = &t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return opts, errors.New("invalid end time")
		}
		opts.End = &t
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, errors.New("invalid limit")
		}
		opts.Limit = n
	}

	return opts, nil
}
