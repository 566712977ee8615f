package population

import "github.com/L3pereira/ndgms/internal/model"

// defaultProximityKm is the distance within which an epicenter counts
// as near a populated area.
const defaultProximityKm = 100

// City is a populated area reference point.
type City struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// DefaultCities is a coarse list of major population centers.
var DefaultCities = []City{
	{"San Francisco", 37.7749, -122.4194},
	{"Los Angeles", 34.0522, -118.2437},
	{"New York", 40.7128, -74.0060},
	{"Tokyo", 35.6762, 139.6503},
	{"Moscow", 55.7558, 37.6176},
}

// StaticLocator checks proximity against a fixed city list.
type StaticLocator struct {
	cities      []City
	proximityKm float64
}

// NewStaticLocator builds a locator over the given cities. A nil or
// empty slice falls back to DefaultCities; radiusKm <= 0 falls back to
// the 100 km default.
func NewStaticLocator(cities []City, radiusKm float64) *StaticLocator {
	if len(cities) == 0 {
		cities = DefaultCities
	}
	if radiusKm <= 0 {
		radiusKm = defaultProximityKm
	}
	return &StaticLocator{cities: cities, proximityKm: radiusKm}
}

func (s *StaticLocator) IsNearPopulatedArea(loc model.Location) bool {
	for _, city := range s.cities {
		ref := model.Location{Latitude: city.Latitude, Longitude: city.Longitude}
		if loc.DistanceKm(ref) < s.proximityKm {
			return true
		}
	}
	return false
}
