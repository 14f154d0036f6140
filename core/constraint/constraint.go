// Package constraint scores a route solution. Hard constraints measure
// infeasibility (overloaded vehicles, late arrivals); soft constraints measure
// driven distance. Evaluation is a pure function of the solution.
package constraint

import (
	"cmp"
	"context"
	"runtime"
	"slices"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/vrppd/core/model"
	"github.com/kilianp07/vrppd/core/score"
)

// Level is the score level a constraint penalises.
type Level uint8

const (
	Hard Level = iota
	Soft
)

func (l Level) String() string {
	if l == Hard {
		return "hard"
	}
	return "soft"
}

const (
	VehicleCapacity              = "vehicleCapacity"
	ArrivalAfterDueTime          = "arrivalAfterDueTime"
	DistanceToPreviousStandstill = "distanceToPreviousStandstill"
	DistanceFromLastRideToDepot  = "distanceFromLastRideToDepot"
)

// Match is one penalised entity. RideID is zero for vehicle level matches.
type Match struct {
	Constraint string `json:"constraint"`
	Level      Level  `json:"level"`
	VehicleID  int64  `json:"vehicle_id"`
	RideID     int64  `json:"ride_id,omitempty"`
	Penalty    int64  `json:"penalty"`
}

// Constraint produces the matches of one rule.
type Constraint struct {
	Name  string
	Level Level
	match func(s *model.Solution, emit func(Match))
}

// Default lists the routing constraints in evaluation order.
var Default = []Constraint{
	{Name: VehicleCapacity, Level: Hard, match: vehicleCapacity},
	{Name: ArrivalAfterDueTime, Level: Hard, match: arrivalAfterDueTime},
	{Name: DistanceToPreviousStandstill, Level: Soft, match: distanceToPreviousStandstill},
	{Name: DistanceFromLastRideToDepot, Level: Soft, match: distanceFromLastRideToDepot},
}

// Matches returns the non zero matches of c on s.
func (c Constraint) Matches(s *model.Solution) []Match {
	var out []Match
	c.match(s, func(m Match) {
		if m.Penalty == 0 {
			return
		}
		m.Constraint, m.Level = c.Name, c.Level
		out = append(out, m)
	})
	return out
}

// Total returns the summed penalty of c on s.
func (c Constraint) Total(s *model.Solution) int64 {
	var total int64
	c.match(s, func(m Match) { total += m.Penalty })
	return total
}

// Lookup finds a default constraint by name.
func Lookup(name string) (Constraint, bool) {
	return lo.Find(Default, func(c Constraint) bool { return c.Name == name })
}

// Evaluate computes the score of s. The result only depends on the chains and
// cached values of s, which must be consistent.
func Evaluate(s *model.Solution) score.Score {
	var hard, soft int64
	for _, c := range Default {
		if c.Level == Hard {
			hard += c.Total(s)
		} else {
			soft += c.Total(s)
		}
	}
	return score.Penalty(hard, soft)
}

// Explain lists every penalised entity sorted by constraint name, vehicle
// and ride identity.
func Explain(s *model.Solution) []Match {
	matches := lo.FlatMap(Default, func(c Constraint, _ int) []Match { return c.Matches(s) })
	slices.SortFunc(matches, func(a, b Match) int {
		return cmp.Or(
			cmp.Compare(a.Constraint, b.Constraint),
			cmp.Compare(a.VehicleID, b.VehicleID),
			cmp.Compare(a.RideID, b.RideID),
		)
	})
	return matches
}

// Summarize sums matches per constraint name.
func Summarize(matches []Match) map[string]int64 {
	return lo.MapValues(lo.GroupBy(matches, func(m Match) string { return m.Constraint }),
		func(ms []Match, _ string) int64 { return lo.SumBy(ms, func(m Match) int64 { return m.Penalty }) })
}

// EvaluateAll scores independent solutions concurrently. The solutions must
// not share chain state; use model.Solution.Clone.
func EvaluateAll(ctx context.Context, sols []*model.Solution) ([]score.Score, error) {
	out := make([]score.Score, len(sols))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range sols {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = Evaluate(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// vehicleCapacity walks each chain accumulating demand. Every ride past the
// breach is charged the part of its demand that does not fit, so the
// penalties of a vehicle add up to its overage.
func vehicleCapacity(s *model.Solution, emit func(Match)) {
	for v := 0; v < s.NumVehicles(); v++ {
		veh := s.Vehicle(v)
		load := 0
		for i := range s.Chain(v) {
			r := s.Ride(i)
			load += r.Demand
			if over := load - veh.Capacity; over > 0 {
				emit(Match{VehicleID: veh.ID, RideID: r.ID, Penalty: int64(min(r.Demand, over))})
			}
		}
	}
}

func arrivalAfterDueTime(s *model.Solution, emit func(Match)) {
	for i := 0; i < s.NumRides(); i++ {
		r := s.Ride(i)
		if !r.ArrivalAfterDue() {
			continue
		}
		emit(Match{VehicleID: s.Vehicle(r.Vehicle()).ID, RideID: r.ID, Penalty: r.Lateness()})
	}
}

func distanceToPreviousStandstill(s *model.Solution, emit func(Match)) {
	for i := 0; i < s.NumRides(); i++ {
		r := s.Ride(i)
		if !r.Assigned() {
			continue
		}
		emit(Match{VehicleID: s.Vehicle(r.Vehicle()).ID, RideID: r.ID, Penalty: r.DistanceFromPrevious()})
	}
}

func distanceFromLastRideToDepot(s *model.Solution, emit func(Match)) {
	for v := 0; v < s.NumVehicles(); v++ {
		last := s.LastRide(v)
		if last == model.NoRide {
			continue
		}
		veh := s.Vehicle(v)
		r := s.Ride(last)
		emit(Match{VehicleID: veh.ID, RideID: r.ID, Penalty: r.Location.DistanceTo(veh.Depot.Location)})
	}
}
