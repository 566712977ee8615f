package repository

import "time"

// MagnitudeRangeOptions filters earthquakes by magnitude and optionally
// by occurrence time. Nil pointer fields are unbounded; Limit <= 0
// means no limit.
type MagnitudeRangeOptions struct {
	MinMagnitude float64
	MaxMagnitude *float64
	Start        *time.Time
	End          *time.Time
	Limit        int
}
