package geo

import (
	"math"
	"testing"
)

func TestHaversine_SamePointIsZero(t *testing.T) {
	points := []Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 19.076, Lng: 72.8777},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 89.9, Lng: -179.9},
	}
	for _, p := range points {
		if d := Haversine(p, p); d != 0 {
			t.Errorf("Haversine(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	pairs := [][2]Coordinate{
		{{Lat: 19.076, Lng: 72.8777}, {Lat: 18.5204, Lng: 73.8567}},
		{{Lat: 51.5074, Lng: -0.1278}, {Lat: 40.7128, Lng: -74.006}},
		{{Lat: -10, Lng: 170}, {Lat: 10, Lng: -170}},
	}
	for _, p := range pairs {
		ab := Haversine(p[0], p[1])
		ba := Haversine(p[1], p[0])
		if ab != ba {
			t.Errorf("Haversine not symmetric: %v vs %v", ab, ba)
		}
		if ab <= 0 {
			t.Errorf("expected positive distance, got %v", ab)
		}
	}
}

func TestHaversine_KnownDistances(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Coordinate
		want    float64
		epsilon float64
	}{
		{"one degree of latitude", Coordinate{0, 0}, Coordinate{1, 0}, 111195, 5},
		{"one degree of longitude at equator", Coordinate{0, 0}, Coordinate{0, 1}, 111195, 5},
		{"mumbai to pune", Coordinate{19.076, 72.8777}, Coordinate{18.5204, 73.8567}, 119900, 1500},
		{"antipodal", Coordinate{0, 0}, Coordinate{0, 180}, math.Pi * EarthRadiusMeters, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.epsilon {
				t.Errorf("Haversine() = %v, want %v ± %v", got, tt.want, tt.epsilon)
			}
		})
	}
}

func TestCoordinate_Valid(t *testing.T) {
	tests := []struct {
		name string
		c    Coordinate
		want bool
	}{
		{"origin", Coordinate{0, 0}, true},
		{"bounds inclusive", Coordinate{90, -180}, true},
		{"lat too high", Coordinate{90.01, 0}, false},
		{"lng too low", Coordinate{0, -180.5}, false},
		{"nan lat", Coordinate{math.NaN(), 0}, false},
		{"inf lng", Coordinate{0, math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

// destination returns the point meters away from c along bearing (degrees from north).
func destination(c Coordinate, meters, bearing float64) Coordinate {
	d := meters / EarthRadiusMeters
	lat1, lng1, b := toRadians(c.Lat), toRadians(c.Lng), toRadians(bearing)
	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(b))
	lng2 := lng1 + math.Atan2(math.Sin(b)*math.Sin(d)*math.Cos(lat1), math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))
	lng := math.Mod(toDegrees(lng2)+540, 360) - 180
	return Coordinate{Lat: toDegrees(lat2), Lng: lng}
}

func TestBoundingBox_ContainsCircle(t *testing.T) {
	const meters = 50000
	centers := []Coordinate{
		{Lat: 19.076, Lng: 72.8777},
		{Lat: 60, Lng: 10},
		{Lat: -17.7, Lng: 179.999},
		{Lat: -17.7, Lng: -179.999},
		{Lat: 89.5, Lng: 10},
		{Lat: 89.9, Lng: 10},
		{Lat: -89.95, Lng: 0},
	}
	for _, center := range centers {
		box := BoundingBox(center, meters)
		for bearing := 0.0; bearing < 360; bearing += 10 {
			p := destination(center, meters*0.999, bearing)
			if !box.Contains(p) {
				t.Errorf("box %+v around %v should contain %v (bearing %v)", box, center, p, bearing)
			}
		}
	}

	center := Coordinate{Lat: 19.076, Lng: 72.8777}
	far := Offset(center, 0.6, 0)
	if BoundingBox(center, meters).Contains(far) {
		t.Errorf("box should not contain %v", far)
	}
}

func TestBoundingBox_WrapsAtAntimeridian(t *testing.T) {
	box := BoundingBox(Coordinate{Lat: -17.7, Lng: 179.999}, 50000)
	if !box.Wraps() {
		t.Fatalf("expected wrapped box, got %+v", box)
	}
	if ranges := box.LngRanges(); len(ranges) != 2 || ranges[0][1] != 180 || ranges[1][0] != -180 {
		t.Errorf("LngRanges = %v", ranges)
	}
	if !box.Contains(Coordinate{Lat: -17.7, Lng: -179.999}) {
		t.Error("box should contain the point across the antimeridian")
	}
	for _, out := range []Coordinate{{Lat: -17.7, Lng: 0}, {Lat: -17.7, Lng: 170}, {Lat: -17.7, Lng: -170}} {
		if box.Contains(out) {
			t.Errorf("box %+v should not contain %v", box, out)
		}
	}

	plain := BoundingBox(Coordinate{Lat: -17.7, Lng: 120}, 50000)
	if plain.Wraps() || len(plain.LngRanges()) != 1 {
		t.Errorf("box away from the antimeridian should not wrap: %+v", plain)
	}
}

func TestBoundingBox_LongitudeHalfWidth(t *testing.T) {
	const meters = 100000
	box := BoundingBox(Coordinate{Lat: 60, Lng: 10}, meters)
	r := meters / EarthRadiusMeters
	want := toDegrees(math.Asin(math.Sin(r) / math.Cos(toRadians(60))))
	if got := box.MaxLng - 10; math.Abs(got-want) > 1e-9 {
		t.Errorf("half width = %v, want %v", got, want)
	}
	if got := 10 - box.MinLng; math.Abs(got-want) > 1e-9 {
		t.Errorf("half width = %v, want %v", got, want)
	}
}

func TestBoundingBox_PoleCapSpansAllLongitudes(t *testing.T) {
	tests := []struct {
		name   string
		center Coordinate
		meters float64
	}{
		{"at the pole", Coordinate{Lat: 90, Lng: 10}, 1000},
		{"cap reaches the north pole", Coordinate{Lat: 89.9, Lng: 10}, 50000},
		{"cap reaches the south pole", Coordinate{Lat: -89.95, Lng: 0}, 10000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := BoundingBox(tt.center, tt.meters)
			if box.MinLng != -180 || box.MaxLng != 180 {
				t.Errorf("expected full longitude span, got %+v", box)
			}
			if box.MaxLat > 90 || box.MinLat < -90 {
				t.Errorf("latitude not clamped: %+v", box)
			}
		})
	}
}
