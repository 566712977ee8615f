package model

// MagnitudeScale identifies the scale a magnitude was measured on.
type MagnitudeScale string

const (
	ScaleRichter     MagnitudeScale = "richter"
	ScaleMoment      MagnitudeScale = "moment"
	ScaleBodyWave    MagnitudeScale = "body_wave"
	ScaleSurfaceWave MagnitudeScale = "surface_wave"
)

// AlertLevel is the qualitative severity bracket of a magnitude.
type AlertLevel string

const (
	AlertLevelLow      AlertLevel = "LOW"
	AlertLevelMedium   AlertLevel = "MEDIUM"
	AlertLevelHigh     AlertLevel = "HIGH"
	AlertLevelCritical AlertLevel = "CRITICAL"
)

// significantMagnitude is the threshold at or above which an earthquake
// is considered significant enough to alert on.
const significantMagnitude = 5.0

// Magnitude is a measured earthquake magnitude on a given scale.
type Magnitude struct {
	Value float64        `json:"value"`
	Scale MagnitudeScale `json:"scale"`
}

// NewMagnitude validates the value range and returns a Magnitude.
// The scale defaults to moment magnitude when empty.
func NewMagnitude(value float64, scale MagnitudeScale) (Magnitude, error) {
	if value < 0 || value > 12 {
		return Magnitude{}, ErrInvalidMagnitude
	}
	if scale == "" {
		scale = ScaleMoment
	}
	return Magnitude{Value: value, Scale: scale}, nil
}

// IsSignificant reports whether the magnitude is 5.0 or greater.
func (m Magnitude) IsSignificant() bool {
	return m.Value >= significantMagnitude
}

// Level classifies the magnitude into a qualitative alert level.
// Boundary values belong to the upper bracket.
func (m Magnitude) Level() AlertLevel {
	switch {
	case m.Value >= 7.0:
		return AlertLevelCritical
	case m.Value >= 5.5:
		return AlertLevelHigh
	case m.Value >= 4.0:
		return AlertLevelMedium
	default:
		return AlertLevelLow
	}
}

// Description returns a human-readable summary of the expected impact.
func (m Magnitude) Description() string {
	switch {
	case m.Value < 2.0:
		return "Micro - Not felt"
	case m.Value < 3.0:
		return "Minor - Often felt, but rarely causes damage"
	case m.Value < 4.0:
		return "Light - Noticeable shaking, rarely causes damage"
	case m.Value < 5.0:
		return "Moderate - Can cause damage to poorly constructed buildings"
	case m.Value < 6.0:
		return "Strong - Can be destructive in areas up to 160 km"
	case m.Value < 7.0:
		return "Major - Can cause serious damage over larger areas"
	case m.Value < 8.0:
		return "Great - Can cause serious damage in areas several hundred km"
	default:
		return "Extreme - Devastating in areas thousands of km"
	}
}
