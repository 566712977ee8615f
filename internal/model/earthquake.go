package model

import (
	"time"

	"github.com/google/uuid"
)

// Earthquake is a recorded seismic event. The ID is immutable once
// assigned; Reviewed only ever transitions from false to true.
type Earthquake struct {
	ID         string    `json:"id"`
	Location   Location  `json:"location"`
	Magnitude  Magnitude `json:"magnitude"`
	OccurredAt time.Time `json:"occurred_at"`
	Source     string    `json:"source"`
	Title      string    `json:"title,omitempty"`
	ExternalID string    `json:"external_id,omitempty"`
	Reviewed   bool      `json:"is_reviewed"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewEarthquake constructs a validated Earthquake with a fresh UUID.
// The occurrence time must not be in the future.
func NewEarthquake(loc Location, mag Magnitude, occurredAt time.Time, source string) (Earthquake, error) {
	now := time.Now().UTC()
	if occurredAt.After(now) {
		return Earthquake{}, ErrFutureTimestamp
	}
	if source == "" {
		source = "USGS"
	}
	return Earthquake{
		ID:         uuid.New().String(),
		Location:   loc,
		Magnitude:  mag,
		OccurredAt: occurredAt.UTC(),
		Source:     source,
		CreatedAt:  now,
	}, nil
}

// MarkReviewed marks the earthquake data as reviewed by an expert.
// The transition is one-directional.
func (e *Earthquake) MarkReviewed() {
	e.Reviewed = true
}

// AffectedRadiusKm estimates the radius of the area potentially
// affected by the earthquake. Shallower events affect proportionally
// larger radii.
func (e Earthquake) AffectedRadiusKm() float64 {
	baseRadius := e.Magnitude.Value * 20

	depthFactor := 1 - e.Location.DepthKm/100
	if depthFactor < 0.1 {
		depthFactor = 0.1
	}

	return baseRadius * depthFactor
}

// ImpactAssessment summarizes the severity-derived properties of the event.
type ImpactAssessment struct {
	AlertLevel           AlertLevel `json:"alert_level"`
	AffectedRadiusKm     float64    `json:"affected_radius_km"`
	IsSignificant        bool       `json:"is_significant"`
	MagnitudeDescription string     `json:"magnitude_description"`
}

// Impact returns the impact assessment derived from magnitude and depth.
func (e Earthquake) Impact() ImpactAssessment {
	return ImpactAssessment{
		AlertLevel:           e.Magnitude.Level(),
		AffectedRadiusKm:     e.AffectedRadiusKm(),
		IsSignificant:        e.Magnitude.IsSignificant(),
		MagnitudeDescription: e.Magnitude.Description(),
	}
}
