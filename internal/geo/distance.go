// Package geo provides great-circle distance and coordinate helpers.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by Haversine.
const EarthRadiusMeters = 6371000.0

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are finite and within [-90,90] / [-180,180].
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Haversine returns the great-circle distance between a and b in meters.
// Callers must reject invalid coordinates first; see Coordinate.Valid.
func Haversine(a, b Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// Offset returns c shifted by the given degree deltas.
func Offset(c Coordinate, dLat, dLng float64) Coordinate {
	return Coordinate{Lat: c.Lat + dLat, Lng: c.Lng + dLng}
}

// Box is a latitude/longitude bounding box in degrees. A box that crosses the
// antimeridian has MinLng > MaxLng.
type Box struct {
	MinLat float64
	MinLng float64
	MaxLat float64
	MaxLng float64
}

// BoundingBox returns a box that contains every point within meters of center.
// When the circle contains a pole the longitude span is the full range; when it
// crosses the antimeridian the box wraps.
func BoundingBox(center Coordinate, meters float64) Box {
	r := meters / EarthRadiusMeters
	dLat := toDegrees(r)
	box := Box{
		MinLat: center.Lat - dLat,
		MaxLat: center.Lat + dLat,
		MinLng: -180,
		MaxLng: 180,
	}
	if box.MinLat <= -90 || box.MaxLat >= 90 {
		box.MinLat = math.Max(-90, box.MinLat)
		box.MaxLat = math.Min(90, box.MaxLat)
		return box
	}
	x := math.Sin(r) / math.Cos(toRadians(center.Lat))
	if x >= 1 {
		return box
	}
	dLng := toDegrees(math.Asin(x))
	box.MinLng = center.Lng - dLng
	box.MaxLng = center.Lng + dLng
	if box.MinLng < -180 {
		box.MinLng += 360
	}
	if box.MaxLng > 180 {
		box.MaxLng -= 360
	}
	return box
}

// Wraps reports whether the box crosses the antimeridian.
func (b Box) Wraps() bool {
	return b.MinLng > b.MaxLng
}

// LngRanges returns the longitude span as one range, or two when the box wraps.
func (b Box) LngRanges() [][2]float64 {
	if b.Wraps() {
		return [][2]float64{{b.MinLng, 180}, {-180, b.MaxLng}}
	}
	return [][2]float64{{b.MinLng, b.MaxLng}}
}

// Contains reports whether c lies inside the box (edges inclusive).
func (b Box) Contains(c Coordinate) bool {
	if c.Lat < b.MinLat || c.Lat > b.MaxLat {
		return false
	}
	for _, r := range b.LngRanges() {
		if c.Lng >= r[0] && c.Lng <= r[1] {
			return true
		}
	}
	return false
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
