package earthquake

import "time"

// FeedRecord is one raw earthquake observation from an external feed.
type FeedRecord struct {
	ExternalID string
	Magnitude  float64
	Latitude   float64
	Longitude  float64
	DepthKm    float64
	OccurredAt time.Time
	Source     string
	Title      string
}

// IngestionResult summarizes one ingestion run.
type IngestionResult struct {
	TotalFetched int      `json:"total_fetched"`
	NewEvents    int      `json:"new_events"`
	Duplicates   int      `json:"duplicates"`
	Errors       int      `json:"errors"`
	CreatedIDs   []string `json:"created_ids"`
}

// IngestionParams configures the scheduled ingestion pull.
type IngestionParams struct {
	Period       string
	MinMagnitude float64
	MaxRecords   int
	FetchTimeout time.Duration
}
