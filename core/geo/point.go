package geo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Scale is the fixed-point factor applied to every distance and time value.
// Both domains share it so that arrival times and travel distances can be added.
const Scale = 1000

// Point is an immutable planar coordinate. Latitude is used as y and
// longitude as x.
type Point struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewPoint returns a point with the given identity and coordinates.
func NewPoint(id int64, lat, lon float64) Point {
	return Point{ID: id, Latitude: lat, Longitude: lon}
}

// Euclid returns the straight line distance between p and q.
func (p Point) Euclid(q Point) float64 {
	return floats.Distance([]float64{p.Latitude, p.Longitude}, []float64{q.Latitude, q.Longitude}, 2)
}

// Midpoint returns the point halfway between p and q. The identity is not kept.
func Midpoint(p, q Point) Point {
	return Point{Latitude: (p.Latitude + q.Latitude) / 2, Longitude: (p.Longitude + q.Longitude) / 2}
}

// Angle returns the direction from p to q in radians, measured from east.
func Angle(p, q Point) float64 {
	return math.Atan2(q.Latitude-p.Latitude, q.Longitude-p.Longitude)
}

func (p Point) String() string {
	return fmt.Sprintf("[%g, %g]", p.Latitude, p.Longitude)
}

// ToFixed converts a real value to fixed point, rounding half up.
func ToFixed(v float64) int64 {
	return int64(math.Floor(v*Scale + 0.5))
}

// FromFixed converts a fixed point value back to a float.
func FromFixed(v int64) float64 {
	return float64(v) / Scale
}
