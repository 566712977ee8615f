package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/L3pereira/ndgms/internal/earthquake"
	"github.com/L3pereira/ndgms/internal/observability"
	"github.com/L3pereira/ndgms/pkg/log"
)

// Feed magnitude segments recognized by the USGS summary endpoint.
const (
	segmentAll = "all"
	segment10  = "1.0"
	segment25  = "2.5"
	segment45  = "4.5"
)

// Config holds the USGS client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// implFeed implements earthquake.Feed against the USGS GeoJSON summary
// feeds.
type implFeed struct {
	l       log.Logger
	client  *http.Client
	baseURL string
	metrics *observability.Metrics
}

// New creates a USGS feed client.
func New(l log.Logger, metrics *observability.Metrics, cfg Config) earthquake.Feed {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &implFeed{
		l:       l,
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.BaseURL,
		metrics: metrics,
	}
}

// geoJSONResponse mirrors the USGS summary feed document.
type geoJSONResponse struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string `json:"id"`
	Properties struct {
		Mag   *float64 `json:"mag"`
		Place string   `json:"place"`
		Time  *int64   `json:"time"` // epoch milliseconds
		Title string   `json:"title"`
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"` // [longitude, latitude, depth]
	} `json:"geometry"`
}

// FetchRecent pulls the summary feed for the period and maps its
// features to raw records. Malformed features are skipped, never fatal.
func (f *implFeed) FetchRecent(ctx context.Context, period string, minMagnitude float64) ([]earthquake.FeedRecord, error) {
	url := fmt.Sprintf("%s/%s_%s.geojson", f.baseURL, magnitudeSegment(minMagnitude), period)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.l.Errorf(ctx, "internal.usgs.client.FetchRecent.NewRequest: %v", err)
		return nil, err
	}

	f.l.Infof(ctx, "Fetching earthquakes from USGS: %s", url)

	resp, err := f.client.Do(req)
	if err != nil {
		f.l.Errorf(ctx, "internal.usgs.client.FetchRecent.Do: %v", err)
		return nil, fmt.Errorf("%w: %v", earthquake.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.l.Errorf(ctx, "internal.usgs.client.FetchRecent.Status: %d", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", earthquake.ErrFeedUnavailable, resp.StatusCode)
	}

	var doc geoJSONResponse
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		f.l.Errorf(ctx, "internal.usgs.client.FetchRecent.Decode: %v", err)
		return nil, fmt.Errorf("%w: %v", earthquake.ErrFeedUnavailable, err)
	}

	records := make([]earthquake.FeedRecord, 0, len(doc.Features))
	for _, feat := range doc.Features {
		rec, ok := f.mapFeature(ctx, feat)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	f.metrics.RecordsFetched.Add(float64(len(records)))
	f.l.Infof(ctx, "Fetched %d earthquakes from USGS", len(records))

	return records, nil
}

// mapFeature converts one GeoJSON feature into a raw record. Features
// missing an id, magnitude, time, or full coordinates are dropped.
func (f *implFeed) mapFeature(ctx context.Context, feat feature) (earthquake.FeedRecord, bool) {
	if feat.ID == "" {
		f.l.Warnf(ctx, "Skipping feature without id")
		return earthquake.FeedRecord{}, false
	}
	if feat.Properties.Mag == nil || feat.Properties.Time == nil {
		f.l.Warnf(ctx, "Skipping feature %s: missing magnitude or time", feat.ID)
		return earthquake.FeedRecord{}, false
	}
	if len(feat.Geometry.Coordinates) < 3 {
		f.l.Warnf(ctx, "Skipping feature %s: invalid coordinates", feat.ID)
		return earthquake.FeedRecord{}, false
	}
	if *feat.Properties.Mag < 0 {
		f.l.Warnf(ctx, "Skipping feature %s: negative magnitude %v", feat.ID, *feat.Properties.Mag)
		return earthquake.FeedRecord{}, false
	}

	depth := feat.Geometry.Coordinates[2]
	if depth < 0 {
		depth = 0
	}

	title := feat.Properties.Title
	if title == "" {
		title = feat.Properties.Place
	}

	return earthquake.FeedRecord{
		ExternalID: feat.ID,
		Magnitude:  *feat.Properties.Mag,
		Latitude:   feat.Geometry.Coordinates[1],
		Longitude:  feat.Geometry.Coordinates[0],
		DepthKm:    depth,
		OccurredAt: time.UnixMilli(*feat.Properties.Time).UTC(),
		Source:     "USGS",
		Title:      title,
	}, true
}

// magnitudeSegment maps a minimum magnitude to the nearest feed segment
// at or below it. The final magnitude cut is applied downstream.
func magnitudeSegment(minMagnitude float64) string {
	switch {
	case minMagnitude >= 4.5:
		return segment45
	case minMagnitude >= 2.5:
		return segment25
	case minMagnitude >= 1.0:
		return segment10
	default:
		return segmentAll
	}
}
