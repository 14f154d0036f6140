package heuristic

import (
	"math"

	"github.com/kilianp07/vrppd/core/location"
	"github.com/kilianp07/vrppd/core/model"
)

// NearbyDistance ranks how close destination is to ride origin: the travel
// cost from the ride to the destination's location. An empty standstill is
// infinitely far.
func NearbyDistance(s *model.Solution, origin int, destination model.Standstill) float64 {
	var to *location.Location
	switch destination.Kind {
	case model.VehicleStandstill:
		to = s.Vehicle(destination.Index).Depot.Location
	case model.RideStandstill:
		to = s.Ride(destination.Index).Location
	default:
		return math.Inf(1)
	}
	return float64(s.Ride(origin).Location.DistanceTo(to))
}

// NearbyDistanceWithGap adds the time window gap between two rides to the
// nearby distance, for problems where waiting has a cost.
func NearbyDistanceWithGap(s *model.Solution, origin int, destination model.Standstill) float64 {
	d := NearbyDistance(s, origin, destination)
	if destination.Kind == model.RideStandstill {
		d += float64(TimeWindowGap(s.Ride(origin), s.Ride(destination.Index)))
	}
	return d
}

// TimeWindowGap returns how long a vehicle must idle between the latest
// departure of one ride and the ready time of the other, whichever order is
// forced by the windows. Rides without windows have no gap.
func TimeWindowGap(a, b *model.Ride) int64 {
	if a.Window == nil || b.Window == nil {
		return 0
	}
	latest := a.Window.Due + a.Window.Service
	otherLatest := b.Window.Due + b.Window.Service
	if latest < b.Window.Ready {
		return b.Window.Ready - latest
	}
	if otherLatest < a.Window.Ready {
		return a.Window.Ready - otherLatest
	}
	return 0
}
