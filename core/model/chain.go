package model

import (
	"errors"
	"fmt"
)

// InsertAfter links ride directly behind prev. The ride that followed prev, if
// any, now follows ride. Cached distances and arrival times are brought up to
// date before returning.
func (s *Solution) InsertAfter(prev Standstill, ride int) error {
	if err := s.checkRide(ride); err != nil {
		return err
	}
	r := &s.rides[ride]
	if r.Assigned() {
		return fmt.Errorf("insert ride %d: %w", r.ID, ErrRideAssigned)
	}
	if err := s.checkStandstill(prev, ride); err != nil {
		return fmt.Errorf("insert ride %d after %s: %w", r.ID, prev, err)
	}

	follower := s.nextOf(prev)
	r.prev = prev
	r.next = follower
	r.vehicle = s.ownerOf(prev)
	r.distanceFromPrev = s.locationOf(prev).DistanceTo(r.Location)
	s.setNext(prev, ride)
	if follower != NoRide {
		f := &s.rides[follower]
		f.prev = AtRide(ride)
		f.distanceFromPrev = r.Location.DistanceTo(f.Location)
	}
	s.PropagateFrom(ride)
	return nil
}

// Remove unlinks ride from its chain and joins its neighbours. The ride ends up
// exactly as an unassigned ride of a fresh solution.
func (s *Solution) Remove(ride int) error {
	if err := s.checkRide(ride); err != nil {
		return err
	}
	r := &s.rides[ride]
	if !r.Assigned() {
		return fmt.Errorf("remove ride %d: %w", r.ID, ErrRideUnassigned)
	}
	prev, follower := r.prev, r.next
	s.setNext(prev, follower)
	r.reset()
	if follower != NoRide {
		f := &s.rides[follower]
		f.prev = prev
		f.distanceFromPrev = s.locationOf(prev).DistanceTo(f.Location)
		s.PropagateFrom(follower)
	}
	return nil
}

// Move places ride behind prev, taking it out of its current chain first. An
// unassigned ride is simply inserted.
func (s *Solution) Move(ride int, prev Standstill) error {
	if err := s.checkRide(ride); err != nil {
		return err
	}
	if err := s.checkStandstill(prev, ride); err != nil {
		return fmt.Errorf("move ride %d after %s: %w", s.rides[ride].ID, prev, err)
	}
	if s.rides[ride].Assigned() {
		if cur, _ := s.rides[ride].Previous(); cur == prev {
			return nil
		}
		if err := s.Remove(ride); err != nil {
			return err
		}
	}
	return s.InsertAfter(prev, ride)
}

// AssignAll appends the given rides to vehicle v in order.
func (s *Solution) AssignAll(v int, rides ...int) error {
	if v < 0 || v >= len(s.vehicles) {
		return fmt.Errorf("vehicle index %d: %w", v, ErrInvalidStandstill)
	}
	prev := AtVehicle(v)
	if last := s.LastRide(v); last != NoRide {
		prev = AtRide(last)
	}
	for _, r := range rides {
		if err := s.InsertAfter(prev, r); err != nil {
			return err
		}
		prev = AtRide(r)
	}
	return nil
}

// Clear unassigns every ride.
func (s *Solution) Clear() {
	for i := range s.vehicles {
		s.vehicles[i].first = NoRide
	}
	for i := range s.rides {
		s.rides[i].reset()
	}
}

func (s *Solution) checkRide(ride int) error {
	if ride < 0 || ride >= len(s.rides) {
		return fmt.Errorf("ride index %d out of range", ride)
	}
	return nil
}

func (s *Solution) checkStandstill(st Standstill, ride int) error {
	switch st.Kind {
	case VehicleStandstill:
		if st.Index < 0 || st.Index >= len(s.vehicles) {
			return ErrInvalidStandstill
		}
	case RideStandstill:
		if st.Index < 0 || st.Index >= len(s.rides) {
			return ErrInvalidStandstill
		}
		if st.Index == ride {
			return ErrSelfReference
		}
		if !s.rides[st.Index].Assigned() {
			return fmt.Errorf("%w: ride %d is unassigned", ErrInvalidStandstill, s.rides[st.Index].ID)
		}
	default:
		return ErrInvalidStandstill
	}
	return nil
}

// Validate walks every chain and reports broken links, wrong owners, stale
// cached distances and stale arrival times.
//
//gocyclo:ignore
func (s *Solution) Validate() error {
	var errs []error
	seen := make([]bool, len(s.rides))
	for v := range s.vehicles {
		prev := AtVehicle(v)
		steps := 0
		for i := s.vehicles[v].first; i != NoRide; i = s.rides[i].next {
			if steps++; steps > len(s.rides) || seen[i] {
				errs = append(errs, fmt.Errorf("vehicle %d: %w", s.vehicles[v].ID, ErrChainCycle))
				break
			}
			seen[i] = true
			r := &s.rides[i]
			if r.prev != prev {
				errs = append(errs, fmt.Errorf("ride %d: previous is %s, want %s", r.ID, r.prev, prev))
			}
			if r.vehicle != v {
				errs = append(errs, fmt.Errorf("ride %d: owned by vehicle index %d, want %d", r.ID, r.vehicle, v))
			}
			if want := s.locationOf(prev).DistanceTo(r.Location); r.distanceFromPrev != want {
				errs = append(errs, fmt.Errorf("ride %d: cached distance %d, want %d", r.ID, r.distanceFromPrev, want))
			}
			if arr, ok := s.expectedArrival(i); ok != r.hasArrival || arr != r.arrival {
				errs = append(errs, fmt.Errorf("ride %d: arrival %d (set %t), want %d (set %t)", r.ID, r.arrival, r.hasArrival, arr, ok))
			}
			prev = AtRide(i)
		}
	}
	for i := range s.rides {
		if seen[i] {
			continue
		}
		r := &s.rides[i]
		if r.Assigned() || r.next != NoRide || r.prev.Kind != NoStandstill || r.hasArrival || r.distanceFromPrev != 0 {
			errs = append(errs, fmt.Errorf("ride %d: not reachable from any vehicle but carries chain state", r.ID))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
