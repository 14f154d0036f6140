package model

import (
	"errors"
	"fmt"

	"github.com/kilianp07/vrppd/core/location"
)

// NoRide marks the absence of a ride in a chain link.
const NoRide = -1

// NoVehicle is the owner of an unassigned ride.
const NoVehicle = -1

var (
	ErrRideAssigned      = errors.New("ride already assigned")
	ErrRideUnassigned    = errors.New("ride not assigned")
	ErrInvalidStandstill = errors.New("invalid standstill")
	ErrSelfReference     = errors.New("ride cannot follow itself")
	ErrMixedWindows      = errors.New("rides must all have time windows or none")
	// ErrChainCycle is raised as a panic: a cycle can only come from memory
	// corruption of the arena, never from the public mutation API.
	ErrChainCycle = errors.New("chain cycle detected")
)

// TimeWindow bounds when a ride may be served. Values use the geo.Scale fixed
// point unit shared with distances.
type TimeWindow struct {
	Ready   int64 `json:"ready"`
	Due     int64 `json:"due"`
	Service int64 `json:"service"`
}

func (w TimeWindow) validate() error {
	if w.Ready > w.Due {
		return fmt.Errorf("ready time %d after due time %d", w.Ready, w.Due)
	}
	if w.Service < 0 {
		return fmt.Errorf("negative service duration %d", w.Service)
	}
	return nil
}

// Depot is where vehicles start and end. Window is only set for time windowed
// problems; its Service is ignored.
type Depot struct {
	ID       int64              `json:"id"`
	Location *location.Location `json:"location"`
	Window   *TimeWindow        `json:"window,omitempty"`
}

// ReadyTime returns the earliest departure from the depot.
func (d *Depot) ReadyTime() int64 {
	if d.Window == nil {
		return 0
	}
	return d.Window.Ready
}

// Vehicle is the root of a chain.
type Vehicle struct {
	ID       int64  `json:"id"`
	Capacity int    `json:"capacity"`
	Depot    *Depot `json:"depot"`

	first int
}

// FirstRide returns the index of the first ride or NoRide.
func (v *Vehicle) FirstRide() int { return v.first }

// Ride is a pickup-delivery request. The exported fields are the problem facts;
// the links and derived values are maintained by Solution.
type Ride struct {
	ID       int64              `json:"id"`
	Location *location.Location `json:"location"`
	Demand   int                `json:"demand"`
	Window   *TimeWindow        `json:"window,omitempty"`

	prev             Standstill
	next             int
	vehicle          int
	distanceFromPrev int64
	arrival          int64
	hasArrival       bool
}

// Previous returns the standstill the ride follows.
func (r *Ride) Previous() (Standstill, bool) { return r.prev, r.prev.Kind != NoStandstill }

// Next returns the index of the following ride or NoRide.
func (r *Ride) Next() int { return r.next }

// Vehicle returns the owning vehicle index or NoVehicle.
func (r *Ride) Vehicle() int { return r.vehicle }

// Assigned reports whether the ride is part of a chain.
func (r *Ride) Assigned() bool { return r.vehicle != NoVehicle }

// DistanceFromPrevious returns the cached cost from the previous standstill.
// It is zero for unassigned rides.
func (r *Ride) DistanceFromPrevious() int64 { return r.distanceFromPrev }

// Arrival returns the arrival time, which only exists for assigned rides of a
// time windowed problem.
func (r *Ride) Arrival() (int64, bool) { return r.arrival, r.hasArrival }

// Departure returns max(arrival, ready) + service.
func (r *Ride) Departure() (int64, bool) {
	if !r.hasArrival || r.Window == nil {
		return 0, false
	}
	return max(r.arrival, r.Window.Ready) + r.Window.Service, true
}

// ArrivalBeforeReady reports whether the vehicle has to wait at the ride.
func (r *Ride) ArrivalBeforeReady() bool {
	return r.hasArrival && r.Window != nil && r.arrival < r.Window.Ready
}

// ArrivalAfterDue reports whether the ride is served late.
func (r *Ride) ArrivalAfterDue() bool {
	return r.hasArrival && r.Window != nil && r.arrival > r.Window.Due
}

// Lateness returns how far past the due time the ride is reached.
func (r *Ride) Lateness() int64 {
	if !r.ArrivalAfterDue() {
		return 0
	}
	return r.arrival - r.Window.Due
}

func (r *Ride) reset() {
	r.prev = Standstill{}
	r.next = NoRide
	r.vehicle = NoVehicle
	r.distanceFromPrev = 0
	r.arrival = 0
	r.hasArrival = false
}

// StandstillKind tags what a Standstill refers to.
type StandstillKind uint8

const (
	NoStandstill StandstillKind = iota
	VehicleStandstill
	RideStandstill
)

// Standstill is anything a ride can directly follow: a vehicle at the start
// of its route or another ride.
type Standstill struct {
	Kind  StandstillKind
	Index int
}

// AtVehicle returns the standstill at the start of vehicle i.
func AtVehicle(i int) Standstill { return Standstill{Kind: VehicleStandstill, Index: i} }

// AtRide returns the standstill of ride i.
func AtRide(i int) Standstill { return Standstill{Kind: RideStandstill, Index: i} }

func (s Standstill) String() string {
	switch s.Kind {
	case VehicleStandstill:
		return fmt.Sprintf("vehicle#%d", s.Index)
	case RideStandstill:
		return fmt.Sprintf("ride#%d", s.Index)
	default:
		return "none"
	}
}
