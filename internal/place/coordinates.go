package place

import (
	"math"

	"github.com/onnwee/places/internal/geo"
	"github.com/onnwee/places/internal/result"
)

// Coordinate bounds in degrees.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Coordinates is an immutable latitude/longitude pair in degrees.
// Values are only produced by NewCoordinates, so they are always in range.
type Coordinates struct {
	latitude  float64
	longitude float64
}

// NewCoordinates validates lat and lon. Latitude is checked first, so an
// input with both values out of range reports the latitude error.
func NewCoordinates(lat, lon float64) result.Result[Coordinates] {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return result.Failure[Coordinates](invalidLatitude())
	}
	if math.IsNaN(lon) || lon < MinLongitude || lon > MaxLongitude {
		return result.Failure[Coordinates](invalidLongitude())
	}
	return result.Success(Coordinates{latitude: lat, longitude: lon})
}

// Latitude returns the latitude in degrees.
func (c Coordinates) Latitude() float64 { return c.latitude }

// Longitude returns the longitude in degrees.
func (c Coordinates) Longitude() float64 { return c.longitude }

// Equals reports whether both coordinates hold exactly the same values.
func (c Coordinates) Equals(other Coordinates) bool {
	return c.latitude == other.latitude && c.longitude == other.longitude
}

// DistanceTo returns the haversine great-circle distance to other in kilometers.
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	return geo.Haversine(c.latitude, c.longitude, other.latitude, other.longitude)
}

// Geohash encodes the coordinates with the given precision.
func (c Coordinates) Geohash(precision int) string {
	return geo.Encode(c.latitude, c.longitude, precision)
}
