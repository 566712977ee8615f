package model

import "math"

const earthRadiusKm = 6371

// Location is the epicenter of an earthquake. DepthKm is measured
// downward from the surface, so it is always non-negative.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	DepthKm   float64 `json:"depth"`
}

// NewLocation validates coordinate ranges and returns a Location.
func NewLocation(latitude, longitude, depthKm float64) (Location, error) {
	if latitude < -90 || latitude > 90 {
		return Location{}, ErrInvalidLatitude
	}
	if longitude < -180 || longitude > 180 {
		return Location{}, ErrInvalidLongitude
	}
	if depthKm < 0 {
		return Location{}, ErrInvalidDepth
	}
	return Location{Latitude: latitude, Longitude: longitude, DepthKm: depthKm}, nil
}

// DistanceKm returns the great-circle distance to another location
// using the haversine formula.
func (l Location) DistanceKm(other Location) float64 {
	lat1 := l.Latitude * math.Pi / 180
	lat2 := other.Latitude * math.Pi / 180
	dLat := (other.Latitude - l.Latitude) * math.Pi / 180
	dLon := (other.Longitude - l.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
