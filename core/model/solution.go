package model

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"

	"github.com/kilianp07/vrppd/core/geo"
	"github.com/kilianp07/vrppd/core/location"
	"github.com/kilianp07/vrppd/core/score"
)

// Problem lists the facts a Solution is built from.
type Problem struct {
	Name         string
	DistanceType location.Kind
	DistanceUnit string
	Locations    []*location.Location
	Depots       []*Depot
	Vehicles     []Vehicle
	Rides        []Ride
	SouthWest    geo.Point
	NorthEast    geo.Point
}

// Solution is a mutable candidate: the problem facts plus the chains built
// on top of them. Vehicles and rides are stored in arenas and linked by index.
// A Solution is not safe for concurrent use; use Clone to evaluate copies in
// parallel.
type Solution struct {
	Name         string
	DistanceType location.Kind
	DistanceUnit string
	Locations    []*location.Location
	Depots       []*Depot
	SouthWest    geo.Point
	NorthEast    geo.Point
	Score        *score.Score

	vehicles []Vehicle
	rides    []Ride
	rideByID map[int64]int
	windowed bool

	propagated int
}

// New validates p and returns a solution in which no ride is assigned.
// Every problem in p is reported at once.
func New(p Problem) (*Solution, error) {
	if err := validateProblem(p); err != nil {
		return nil, err
	}
	s := &Solution{
		Name:         p.Name,
		DistanceType: p.DistanceType,
		DistanceUnit: p.DistanceUnit,
		Locations:    p.Locations,
		Depots:       p.Depots,
		SouthWest:    p.SouthWest,
		NorthEast:    p.NorthEast,
		vehicles:     slices.Clone(p.Vehicles),
		rides:        slices.Clone(p.Rides),
		rideByID:     make(map[int64]int, len(p.Rides)),
	}
	for i := range s.vehicles {
		s.vehicles[i].first = NoRide
	}
	for i := range s.rides {
		s.rides[i].reset()
		s.rideByID[s.rides[i].ID] = i
		if s.rides[i].Window != nil {
			s.windowed = true
		}
	}
	return s, nil
}

//gocyclo:ignore
func validateProblem(p Problem) error {
	var errs []error
	vehicleIDs := make(map[int64]struct{}, len(p.Vehicles))
	for _, v := range p.Vehicles {
		if _, dup := vehicleIDs[v.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate vehicle id %d", v.ID))
		}
		vehicleIDs[v.ID] = struct{}{}
		if v.Depot == nil || v.Depot.Location == nil {
			errs = append(errs, fmt.Errorf("vehicle %d has no depot location", v.ID))
		}
		if v.Capacity < 0 {
			errs = append(errs, fmt.Errorf("vehicle %d has negative capacity %d", v.ID, v.Capacity))
		}
	}
	rideIDs := make(map[int64]struct{}, len(p.Rides))
	windowed := 0
	for _, r := range p.Rides {
		if _, dup := rideIDs[r.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate ride id %d", r.ID))
		}
		rideIDs[r.ID] = struct{}{}
		if r.Location == nil {
			errs = append(errs, fmt.Errorf("ride %d has no location", r.ID))
		}
		if r.Demand < 0 {
			errs = append(errs, fmt.Errorf("ride %d has negative demand %d", r.ID, r.Demand))
		}
		if r.Window != nil {
			windowed++
			if err := r.Window.validate(); err != nil {
				errs = append(errs, fmt.Errorf("ride %d: %w", r.ID, err))
			}
		}
	}
	if windowed > 0 && windowed < len(p.Rides) {
		errs = append(errs, ErrMixedWindows)
	}
	if windowed > 0 {
		for _, v := range p.Vehicles {
			if v.Depot != nil && v.Depot.Window == nil {
				errs = append(errs, fmt.Errorf("vehicle %d: depot %d has no time window", v.ID, v.Depot.ID))
			}
		}
	}
	if len(errs) == 0 {
		errs = append(errs, validateRoadTables(p))
	}
	return errors.Join(errs...)
}

func validateRoadTables(p Problem) error {
	seen := make(map[*location.Location]struct{})
	var locs []*location.Location
	add := func(l *location.Location) {
		if l == nil {
			return
		}
		if _, ok := seen[l]; ok {
			return
		}
		seen[l] = struct{}{}
		locs = append(locs, l)
	}
	for _, l := range p.Locations {
		add(l)
	}
	for _, d := range p.Depots {
		add(d.Location)
	}
	for _, v := range p.Vehicles {
		add(v.Depot.Location)
	}
	for _, r := range p.Rides {
		add(r.Location)
	}
	tables := make(map[*location.RoadTable]struct{})
	for _, l := range locs {
		if t := l.RoadTable(); t != nil {
			tables[t] = struct{}{}
		}
	}
	var errs []error
	for t := range tables {
		errs = append(errs, t.Validate(locs))
	}
	return errors.Join(errs...)
}

// Windowed reports whether rides carry time windows.
func (s *Solution) Windowed() bool { return s.windowed }

// NumVehicles returns the number of vehicles.
func (s *Solution) NumVehicles() int { return len(s.vehicles) }

// NumRides returns the number of rides.
func (s *Solution) NumRides() int { return len(s.rides) }

// Vehicle returns vehicle i. The pointer stays valid for the solution lifetime.
func (s *Solution) Vehicle(i int) *Vehicle { return &s.vehicles[i] }

// Ride returns ride i. The pointer stays valid for the solution lifetime.
func (s *Solution) Ride(i int) *Ride { return &s.rides[i] }

// RideIndex resolves a ride identity to its index.
func (s *Solution) RideIndex(id int64) (int, bool) {
	i, ok := s.rideByID[id]
	return i, ok
}

// Unassigned returns the indices of rides not in any chain.
func (s *Solution) Unassigned() []int {
	var out []int
	for i := range s.rides {
		if !s.rides[i].Assigned() {
			out = append(out, i)
		}
	}
	return out
}

// Clone returns an independent copy of the chains. Problem facts such as
// locations and depots are immutable and shared.
func (s *Solution) Clone() *Solution {
	c := *s
	c.vehicles = slices.Clone(s.vehicles)
	c.rides = slices.Clone(s.rides)
	if s.Score != nil {
		sc := *s.Score
		c.Score = &sc
	}
	return &c
}

// Chain yields the ride indices of vehicle v in route order. The sequence can
// be iterated several times.
func (s *Solution) Chain(v int) iter.Seq[int] {
	return func(yield func(int) bool) {
		steps := 0
		for i := s.vehicles[v].first; i != NoRide; i = s.rides[i].next {
			steps++
			if steps > len(s.rides) {
				panic(ErrChainCycle)
			}
			if !yield(i) {
				return
			}
		}
	}
}

// Rides returns the ride indices of vehicle v in route order.
func (s *Solution) Rides(v int) []int {
	return slices.Collect(s.Chain(v))
}

// Load returns the summed demand of the rides assigned to vehicle v.
func (s *Solution) Load(v int) int {
	total := 0
	for i := range s.Chain(v) {
		total += s.rides[i].Demand
	}
	return total
}

// LastRide returns the final ride of vehicle v or NoRide.
func (s *Solution) LastRide(v int) int {
	last := NoRide
	for i := range s.Chain(v) {
		last = i
	}
	return last
}

// TotalDistance returns the cost of driving vehicle v's route from its depot
// and back. Empty routes cost nothing.
func (s *Solution) TotalDistance(v int) int64 {
	veh := &s.vehicles[v]
	if veh.first == NoRide {
		return 0
	}
	var total int64
	last := NoRide
	for i := range s.Chain(v) {
		total += s.rides[i].distanceFromPrev
		last = i
	}
	return total + s.rides[last].Location.DistanceTo(veh.Depot.Location)
}

// Distance returns the summed route cost of all vehicles.
func (s *Solution) Distance() int64 {
	var total int64
	for v := range s.vehicles {
		total += s.TotalDistance(v)
	}
	return total
}

// Route yields the depot, the pickup and delivery of every ride in order, and
// the depot again. It yields nothing for a vehicle without rides.
func (s *Solution) Route(v int) iter.Seq[geo.Point] {
	return func(yield func(geo.Point) bool) {
		veh := &s.vehicles[v]
		if veh.first == NoRide {
			return
		}
		depot := veh.Depot.Location.Pickup
		if !yield(depot) {
			return
		}
		for i := range s.Chain(v) {
			loc := s.rides[i].Location
			if !yield(loc.Pickup) || !yield(loc.Delivery) {
				return
			}
		}
		yield(depot)
	}
}

// RoutePoints collects Route into a slice.
func (s *Solution) RoutePoints(v int) []geo.Point {
	return slices.Collect(s.Route(v))
}

// DistanceString formats the total distance for the solution's unit of
// measurement. "sec" values are seconds, "km" values kilometres and "meter"
// values metres, all in fixed point.
func (s *Solution) DistanceString() string {
	return FormatDistance(s.Distance(), s.DistanceUnit)
}

// FormatDistance renders a fixed point distance in the given unit.
func FormatDistance(d int64, unit string) string {
	switch unit {
	case "sec":
		hours := d / 3_600_000
		minutes := d % 3_600_000 / 60_000
		seconds := d % 60_000 / 1000
		millis := d % 1000
		return fmt.Sprintf("%dh %dm %ds %dms", hours, minutes, seconds, millis)
	case "km":
		return fmt.Sprintf("%dkm %dm", d/1000, d%1000)
	case "meter":
		meters := d / 1000
		return fmt.Sprintf("%dkm %dm", meters/1000, meters%1000)
	case "":
		return strconv.FormatFloat(geo.FromFixed(d), 'f', 3, 64)
	default:
		return strconv.FormatFloat(geo.FromFixed(d), 'f', 3, 64) + " " + unit
	}
}

func (s *Solution) locationOf(st Standstill) *location.Location {
	if st.Kind == VehicleStandstill {
		return s.vehicles[st.Index].Depot.Location
	}
	return s.rides[st.Index].Location
}

func (s *Solution) nextOf(st Standstill) int {
	if st.Kind == VehicleStandstill {
		return s.vehicles[st.Index].first
	}
	return s.rides[st.Index].next
}

func (s *Solution) setNext(st Standstill, ride int) {
	if st.Kind == VehicleStandstill {
		s.vehicles[st.Index].first = ride
		return
	}
	s.rides[st.Index].next = ride
}

func (s *Solution) ownerOf(st Standstill) int {
	if st.Kind == VehicleStandstill {
		return st.Index
	}
	return s.rides[st.Index].vehicle
}
