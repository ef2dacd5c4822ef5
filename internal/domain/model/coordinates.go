package model

import (
	"math"

	"privilege-club/internal/domain"
)

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// Coordinates is a WGS-84 position in decimal degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// NewCoordinates validates and constructs a coordinate pair.
func NewCoordinates(lat, lng float64) (Coordinates, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return Coordinates{}, domain.ErrInvalidArgument
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Coordinates{}, domain.ErrInvalidArgument
	}
	return Coordinates{Lat: lat, Lng: lng}, nil
}

// DistanceMeters returns the great-circle distance between a and b.
// Symmetric in its arguments; DistanceMeters(a, a) is zero up to floating
// point epsilon. NaN inputs propagate, callers must guard.
func DistanceMeters(a, b Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
