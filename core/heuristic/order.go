// Package heuristic holds the hooks a construction or local search procedure
// uses to order rides and to rank nearby moves.
package heuristic

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/kilianp07/vrppd/core/model"
)

// Order selects how rides are sorted by difficulty.
type Order string

const (
	// DepotAngle sweeps around the depot, which yields pizza slice routes on
	// large instances.
	DepotAngle Order = "angle"
	// DepotDistance puts rides close to the depot first.
	DepotDistance Order = "distance"
)

// ParseOrder validates a configured order name.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case DepotAngle, DepotDistance:
		return Order(s), nil
	case "":
		return DepotAngle, nil
	}
	return "", fmt.Errorf("unknown difficulty order %q", s)
}

// ErrNoDepot is returned when a solution has no depot to order around.
var ErrNoDepot = errors.New("solution has no depot")

// Weight is the difficulty of one ride relative to a depot.
type Weight struct {
	Ride      int
	RideID    int64
	Angle     float64
	RoundTrip int64
	Demand    int
	PickupLat float64
	PickupLon float64
	DropLat   float64
	DropLon   float64
}

// Weigh computes the difficulty of ride i relative to depot.
func Weigh(s *model.Solution, depot *model.Depot, i int) Weight {
	r := s.Ride(i)
	loc := r.Location
	return Weight{
		Ride:      i,
		RideID:    r.ID,
		Angle:     loc.AngleTo(depot.Location),
		RoundTrip: loc.DistanceTo(depot.Location) + depot.Location.DistanceTo(loc),
		Demand:    r.Demand,
		PickupLat: loc.Pickup.Latitude,
		PickupLon: loc.Pickup.Longitude,
		DropLat:   loc.Delivery.Latitude,
		DropLon:   loc.Delivery.Longitude,
	}
}

// CompareAngle orders by angle to the depot, then round trip distance, then
// ride identity.
func CompareAngle(a, b Weight) int {
	return cmp.Or(
		cmp.Compare(a.Angle, b.Angle),
		cmp.Compare(a.RoundTrip, b.RoundTrip),
		cmp.Compare(a.RideID, b.RideID),
	)
}

// CompareDistance orders by round trip distance, demand, pickup and delivery
// coordinates and finally ride identity.
func CompareDistance(a, b Weight) int {
	return cmp.Or(
		cmp.Compare(a.RoundTrip, b.RoundTrip),
		cmp.Compare(a.Demand, b.Demand),
		cmp.Compare(a.PickupLat, b.PickupLat),
		cmp.Compare(a.PickupLon, b.PickupLon),
		cmp.Compare(a.DropLat, b.DropLat),
		cmp.Compare(a.DropLon, b.DropLon),
		cmp.Compare(a.RideID, b.RideID),
	)
}

// SortRides returns every ride index sorted by ascending difficulty. Weights
// are taken relative to the first depot of the solution.
func SortRides(s *model.Solution, o Order) ([]int, error) {
	depot := firstDepot(s)
	if depot == nil {
		return nil, ErrNoDepot
	}
	var compare func(a, b Weight) int
	switch o {
	case DepotAngle:
		compare = CompareAngle
	case DepotDistance:
		compare = CompareDistance
	default:
		return nil, fmt.Errorf("unknown difficulty order %q", o)
	}
	weights := make([]Weight, s.NumRides())
	for i := range weights {
		weights[i] = Weigh(s, depot, i)
	}
	slices.SortFunc(weights, compare)
	return lo.Map(weights, func(w Weight, _ int) int { return w.Ride }), nil
}

func firstDepot(s *model.Solution) *model.Depot {
	if len(s.Depots) > 0 {
		return s.Depots[0]
	}
	if s.NumVehicles() > 0 {
		return s.Vehicle(0).Depot
	}
	return nil
}
