package location

import (
	"fmt"

	"github.com/kilianp07/vrppd/core/geo"
)

// Kind selects the distance strategy of a Location.
type Kind uint8

const (
	// KindAir computes straight line distances between coordinates.
	KindAir Kind = iota
	// KindRoad looks distances up in a precomputed RoadTable.
	KindRoad
)

func (k Kind) String() string {
	switch k {
	case KindAir:
		return "AIR_DISTANCE"
	case KindRoad:
		return "ROAD_DISTANCE"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind maps a configuration value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "air", "AIR_DISTANCE":
		return KindAir, nil
	case "road", "ROAD_DISTANCE":
		return KindRoad, nil
	}
	return 0, fmt.Errorf("unknown distance type %q", s)
}

// Location is a pickup point and a delivery point travelled as one leg.
// Single point locations have Pickup == Delivery. Locations are immutable once
// built and may be shared between solution copies.
type Location struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name,omitempty"`
	Kind     Kind      `json:"kind"`
	Pickup   geo.Point `json:"pickup"`
	Delivery geo.Point `json:"delivery"`

	road       *RoadTable
	startToEnd float64
}

// NewAir returns an air distance location travelling from pickup to delivery.
func NewAir(id int64, name string, pickup, delivery geo.Point) *Location {
	return &Location{ID: id, Name: name, Kind: KindAir, Pickup: pickup, Delivery: delivery}
}

// NewAirPoint returns an air distance location made of a single point.
func NewAirPoint(id int64, name string, p geo.Point) *Location {
	return NewAir(id, name, p, p)
}

// NewRoad returns a location whose distances come from table. startToEnd is
// the real (unscaled) cost of its own pickup to delivery leg.
func NewRoad(id int64, name string, pickup, delivery geo.Point, table *RoadTable, startToEnd float64) *Location {
	return &Location{
		ID:         id,
		Name:       name,
		Kind:       KindRoad,
		Pickup:     pickup,
		Delivery:   delivery,
		road:       table,
		startToEnd: startToEnd,
	}
}

// RoadTable returns the lookup table of a road location, nil otherwise.
func (l *Location) RoadTable() *RoadTable { return l.road }

// PickupDeliveryDistance returns the fixed point cost of the internal leg.
func (l *Location) PickupDeliveryDistance() int64 {
	if l.Kind == KindRoad {
		return geo.ToFixed(l.startToEnd)
	}
	return geo.ToFixed(l.Pickup.Euclid(l.Delivery))
}

// DistanceTo returns the fixed point cost of travelling from l to other. It is
// not assumed symmetric. Road locations panic with *UnknownPairError when the
// table has no entry for the pair.
func (l *Location) DistanceTo(other *Location) int64 {
	switch l.Kind {
	case KindRoad:
		if l == other || l.ID == other.ID {
			return 0
		}
		d, ok := l.road.Distance(l.ID, other.ID)
		if !ok {
			panic(&UnknownPairError{From: l.ID, To: other.ID})
		}
		return geo.ToFixed(l.startToEnd + d)
	default:
		between := geo.ToFixed(l.Delivery.Euclid(other.Pickup))
		return between + l.PickupDeliveryDistance() + other.PickupDeliveryDistance()
	}
}

// AngleTo returns the angle, relative to east, from the midpoint of l to the
// midpoint of other.
func (l *Location) AngleTo(other *Location) float64 {
	return geo.Angle(geo.Midpoint(l.Pickup, l.Delivery), geo.Midpoint(other.Pickup, other.Delivery))
}

func (l *Location) String() string {
	return l.Pickup.String() + " " + l.Delivery.String()
}
