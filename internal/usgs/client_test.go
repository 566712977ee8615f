package usgs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/L3pereira/ndgms/internal/earthquake"
	"github.com/L3pereira/ndgms/internal/observability"
)

type noopLogger struct{}

func (noopLogger) Debug(ctx context.Context, arg ...any)                   {}
func (noopLogger) Debugf(ctx context.Context, template string, arg ...any) {}
func (noopLogger) Info(ctx context.Context, arg ...any)                    {}
func (noopLogger) Infof(ctx context.Context, template string, arg ...any)  {}
func (noopLogger) Warn(ctx context.Context, arg ...any)                    {}
func (noopLogger) Warnf(ctx context.Context, template string, arg ...any)  {}
func (noopLogger) Error(ctx context.Context, arg ...any)                   {}
func (noopLogger) Errorf(ctx context.Context, template string, arg ...any) {}
func (noopLogger) Fatal(ctx context.Context, arg ...any)                   {}
func (noopLogger) Fatalf(ctx context.Context, template string, arg ...any) {}

const feedDocument = `{
	"features": [
		{
			"id": "us7000abcd",
			"properties": {"mag": 5.2, "place": "10km N of Somewhere", "time": 1750000000000, "title": "M 5.2 - 10km N of Somewhere"},
			"geometry": {"coordinates": [-122.42, 37.77, 8.5]}
		},
		{
			"id": "us7000abce",
			"properties": {"mag": null, "place": "missing magnitude", "time": 1750000000000},
			"geometry": {"coordinates": [-122.0, 37.0, 5.0]}
		},
		{
			"id": "",
			"properties": {"mag": 3.0, "time": 1750000000000},
			"geometry": {"coordinates": [-122.0, 37.0, 5.0]}
		},
		{
			"id": "us7000abcf",
			"properties": {"mag": 2.8, "time": 1750000000000},
			"geometry": {"coordinates": [-121.0]}
		},
		{
			"id": "us7000abd0",
			"properties": {"mag": 4.1, "place": "offshore", "time": 1750000000000},
			"geometry": {"coordinates": [142.37, 38.32, -1.2]}
		}
	]
}`

func TestFetchRecentMapsFeaturesAndSkipsMalformed(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(feedDocument))
	}))
	defer srv.Close()

	feed := New(noopLogger{}, observability.NewMetricsForTesting(), Config{BaseURL: srv.URL})

	records, err := feed.FetchRecent(context.Background(), "hour", 2.5)
	require.NoError(t, err)

	assert.Equal(t, "/2.5_hour.geojson", gotPath)

	// Only the two well-formed features survive.
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "us7000abcd", first.ExternalID)
	assert.Equal(t, 5.2, first.Magnitude)
	assert.Equal(t, 37.77, first.Latitude)
	assert.Equal(t, -122.42, first.Longitude)
	assert.Equal(t, 8.5, first.DepthKm)
	assert.Equal(t, "USGS", first.Source)
	assert.Equal(t, "M 5.2 - 10km N of Somewhere", first.Title)
	assert.Equal(t, time.UnixMilli(1750000000000).UTC(), first.OccurredAt)

	// Negative depth is clamped to the surface.
	assert.Equal(t, 0.0, records[1].DepthKm)
}

func TestFetchRecentFeedErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	feed := New(noopLogger{}, observability.NewMetricsForTesting(), Config{BaseURL: srv.URL})

	_, err := feed.FetchRecent(context.Background(), "day", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, earthquake.ErrFeedUnavailable)
}

func TestMagnitudeSegment(t *testing.T) {
	tests := []struct {
		min  float64
		want string
	}{
		{0, "all"},
		{0.5, "all"},
		{1.0, "1.0"},
		{2.5, "2.5"},
		{3.0, "2.5"},
		{4.5, "4.5"},
		{6.0, "4.5"},
	}

	for _, tt := range tests {
		if got := magnitudeSegment(tt.min); got != tt.want {
			t.Errorf("magnitudeSegment(%v) = %s, want %s", tt.min, got, tt.want)
		}
	}
}
