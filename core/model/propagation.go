package model

// NextArrival returns the arrival time at a ride given the departure of the
// standstill before it. Coming straight from the depot the vehicle never
// arrives before the ride is ready, so the arrival is clamped to ready.
func NextArrival(prevDeparture, distance, ready int64, fromDepot bool) int64 {
	arrival := prevDeparture + distance
	if fromDepot {
		return max(ready, arrival)
	}
	return arrival
}

// expectedArrival recomputes the arrival of ride i from its upstream state.
func (s *Solution) expectedArrival(i int) (int64, bool) {
	r := &s.rides[i]
	if !s.windowed || !r.Assigned() {
		return 0, false
	}
	switch r.prev.Kind {
	case VehicleStandstill:
		depot := s.vehicles[r.prev.Index].Depot
		return NextArrival(depot.ReadyTime(), r.distanceFromPrev, r.Window.Ready, true), true
	case RideStandstill:
		dep, ok := s.rides[r.prev.Index].Departure()
		if !ok {
			return 0, false
		}
		return NextArrival(dep, r.distanceFromPrev, r.Window.Ready, false), true
	}
	return 0, false
}

// PropagateFrom recomputes arrival times from ride down its chain and stops at
// the first ride whose arrival does not change. It returns the number of rides
// updated. Plain problems carry no arrival times and are left untouched.
func (s *Solution) PropagateFrom(ride int) int {
	if !s.windowed {
		return 0
	}
	updated := 0
	for i := ride; i != NoRide; i = s.rides[i].next {
		if updated >= len(s.rides) {
			panic(ErrChainCycle)
		}
		r := &s.rides[i]
		arr, ok := s.expectedArrival(i)
		if ok == r.hasArrival && arr == r.arrival {
			break
		}
		r.arrival, r.hasArrival = arr, ok
		updated++
	}
	s.propagated += updated
	return updated
}

// Propagated returns the running number of arrival updates made by
// PropagateFrom over the life of the solution.
func (s *Solution) Propagated() int { return s.propagated }

// PropagateAll recomputes every arrival time without stopping early and
// returns how many changed. On a consistent solution it returns 0.
func (s *Solution) PropagateAll() int {
	if !s.windowed {
		return 0
	}
	changed := 0
	for v := range s.vehicles {
		for i := range s.Chain(v) {
			r := &s.rides[i]
			arr, ok := s.expectedArrival(i)
			if ok != r.hasArrival || arr != r.arrival {
				r.arrival, r.hasArrival = arr, ok
				changed++
			}
		}
	}
	return changed
}
