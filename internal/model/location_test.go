package model

import (
	"math"
	"testing"
)

func TestNewLocationValidation(t *testing.T) {
	tests := []struct {
		name          string
		lat, lon, dep float64
		wantErr       error
	}{
		{"valid", 37.77, -122.41, 10, nil},
		{"lat too low", -90.5, 0, 0, ErrInvalidLatitude},
		{"lat too high", 90.5, 0, 0, ErrInvalidLatitude},
		{"lon too low", 0, -180.5, 0, ErrInvalidLongitude},
		{"lon too high", 0, 180.5, 0, ErrInvalidLongitude},
		{"negative depth", 0, 0, -1, ErrInvalidDepth},
		{"boundary lat", 90, 180, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocation(tt.lat, tt.lon, tt.dep)
			if err != tt.wantErr {
				t.Errorf("NewLocation(%v, %v, %v) error = %v, want %v", tt.lat, tt.lon, tt.dep, err, tt.wantErr)
			}
		})
	}
}

func TestDistanceKm(t *testing.T) {
	sf, _ := NewLocation(37.7749, -122.4194, 0)
	la, _ := NewLocation(34.0522, -118.2437, 0)

	// SF to LA is roughly 560 km.
	got := sf.DistanceKm(la)
	if math.Abs(got-559) > 10 {
		t.Errorf("DistanceKm(SF, LA) = %.1f, want ~559", got)
	}

	if d := sf.DistanceKm(sf); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}
}
