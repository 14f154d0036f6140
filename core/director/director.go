// Package director applies chain mutations to a solution and keeps its score
// observable. A Director owns its solution: callers must not mutate the
// solution directly or share a Director between goroutines.
package director

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/vrppd/core/constraint"
	"github.com/kilianp07/vrppd/core/heuristic"
	"github.com/kilianp07/vrppd/core/logger"
	"github.com/kilianp07/vrppd/core/metrics"
	"github.com/kilianp07/vrppd/core/model"
	"github.com/kilianp07/vrppd/core/monitoring"
	"github.com/kilianp07/vrppd/core/score"
	"github.com/kilianp07/vrppd/core/scorelog"
	"github.com/kilianp07/vrppd/internal/eventbus"
)

// Director is the single writer of a Solution.
type Director struct {
	sol       *model.Solution
	sessionID string
	sink      metrics.ScoreSink
	bus       *eventbus.Bus[Event]
	store     scorelog.Store
	logger    logger.Logger
	now       func() time.Time
}

// New creates a director for sol. Nil sink, bus or logger are replaced by
// no-op implementations.
func New(sol *model.Solution, sink metrics.ScoreSink, bus *eventbus.Bus[Event], log logger.Logger) (*Director, error) {
	if sol == nil {
		return nil, fmt.Errorf("director: nil solution")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Director{
		sol:       sol,
		sessionID: uuid.NewString(),
		sink:      sink,
		bus:       bus,
		store:     scorelog.NopStore{},
		logger:    log,
		now:       time.Now,
	}, nil
}

// SetScoreLog configures the store every calculated score is appended to.
func (d *Director) SetScoreLog(store scorelog.Store) {
	if store == nil {
		store = scorelog.NopStore{}
	}
	d.store = store
}

// Solution returns the owned solution. It must only be read.
func (d *Director) Solution() *model.Solution { return d.sol }

// SessionID identifies this director in events, metrics and score logs.
func (d *Director) SessionID() string { return d.sessionID }

// InsertAfter places an unassigned ride behind prev.
func (d *Director) InsertAfter(prev model.Standstill, ride int) error {
	before := d.sol.Propagated()
	if err := d.sol.InsertAfter(prev, ride); err != nil {
		return err
	}
	d.mutated(OpInsert, ride, d.sol.Propagated()-before)
	return nil
}

// Remove unassigns ride.
func (d *Director) Remove(ride int) error {
	if ride >= 0 && ride < d.sol.NumRides() && d.sol.Ride(ride).Assigned() {
		// the owner is lost once the ride is unlinked
		v := d.sol.Ride(ride).Vehicle()
		before := d.sol.Propagated()
		if err := d.sol.Remove(ride); err != nil {
			return err
		}
		d.record(OpRemove, d.sol.Ride(ride).ID, d.sol.Vehicle(v).ID, d.sol.Propagated()-before)
		return nil
	}
	return d.sol.Remove(ride)
}

// Move places ride behind prev, unlinking it first when assigned.
func (d *Director) Move(ride int, prev model.Standstill) error {
	before := d.sol.Propagated()
	if err := d.sol.Move(ride, prev); err != nil {
		return err
	}
	d.mutated(OpMove, ride, d.sol.Propagated()-before)
	return nil
}

// Seed assigns every unassigned ride round-robin over the vehicles, taking
// the rides in the given difficulty order. It is a starting point for a
// search, not an optimisation.
func (d *Director) Seed(order heuristic.Order) error {
	if d.sol.NumVehicles() == 0 {
		return fmt.Errorf("seed: no vehicles")
	}
	sorted, err := heuristic.SortRides(d.sol, order)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	next := 0
	for _, r := range sorted {
		if d.sol.Ride(r).Assigned() {
			continue
		}
		v := next % d.sol.NumVehicles()
		next++
		prev := model.AtVehicle(v)
		if last := d.sol.LastRide(v); last != model.NoRide {
			prev = model.AtRide(last)
		}
		if err := d.InsertAfter(prev, r); err != nil {
			return fmt.Errorf("seed ride %d: %w", d.sol.Ride(r).ID, err)
		}
	}
	d.logger.Infow("solution seeded", logger.Fields{
		"session_id": d.sessionID,
		"order":      string(order),
		"rides":      len(sorted),
	})
	return nil
}

// CalculateScore evaluates the constraints, stores the result on the
// solution and reports it to the sink and the score log. Failures of the
// sink or the store are logged and do not affect the returned score.
func (d *Director) CalculateScore(ctx context.Context) (score.Score, error) {
	if err := ctx.Err(); err != nil {
		return score.Score{}, err
	}
	start := d.now()
	sc := constraint.Evaluate(d.sol)
	elapsed := d.now().Sub(start)
	scoreLatency.Observe(elapsed.Seconds())
	d.sol.Score = &sc

	unassigned := len(d.sol.Unassigned())
	ev := metrics.ScoreEvent{
		SessionID:   d.sessionID,
		Solution:    d.sol.Name,
		HardPenalty: sc.HardPenalty(),
		SoftPenalty: sc.SoftPenalty(),
		Distance:    d.sol.Distance(),
		Assigned:    d.sol.NumRides() - unassigned,
		Unassigned:  unassigned,
		Feasible:    sc.IsFeasible(),
		Duration:    elapsed,
		Time:        start,
	}
	if err := d.sink.RecordScore(ev); err != nil {
		d.logger.Warnf("record score: %v", err)
		monitoring.CaptureException(err, map[string]string{"module": "director", "op": string(OpScore)})
	}
	rec := scorelog.Record{
		ID:         uuid.NewString(),
		SessionID:  d.sessionID,
		Timestamp:  start,
		Solution:   d.sol.Name,
		Score:      sc.String(),
		Hard:       sc.Hard,
		Soft:       sc.Soft,
		Distance:   ev.Distance,
		Unassigned: unassigned,
		Matches:    constraint.Explain(d.sol),
	}
	if err := d.store.Append(ctx, rec); err != nil {
		d.logger.Warnf("append score log: %v", err)
		monitoring.CaptureException(err, map[string]string{"module": "scorelog", "session_id": d.sessionID})
	}
	d.publish(Event{SessionID: d.sessionID, Op: OpScore, Score: sc.String(), Time: start})
	d.logger.Debugw("score calculated", logger.Fields{
		"session_id": d.sessionID,
		"score":      sc.String(),
		"distance":   ev.Distance,
	})
	return sc, nil
}

// Score returns the last calculated score, if any.
func (d *Director) Score() (score.Score, bool) {
	if d.sol.Score == nil {
		return score.Score{}, false
	}
	return *d.sol.Score, true
}

// Close closes the event bus and the score log.
func (d *Director) Close() error {
	if d.bus != nil {
		d.bus.Close()
	}
	return d.store.Close()
}

func (d *Director) mutated(op Op, ride, updated int) {
	r := d.sol.Ride(ride)
	d.record(op, r.ID, d.sol.Vehicle(r.Vehicle()).ID, updated)
}

func (d *Director) record(op Op, rideID, vehicleID int64, updated int) {
	now := d.now()
	mutationsTotal.WithLabelValues(string(op)).Inc()
	ridesUpdated.Observe(float64(updated))
	if rec, ok := d.sink.(metrics.MutationRecorder); ok {
		err := rec.RecordMutation(metrics.MutationEvent{
			SessionID:    d.sessionID,
			Op:           string(op),
			RideID:       rideID,
			VehicleID:    vehicleID,
			RidesUpdated: updated,
			Time:         now,
		})
		if err != nil {
			d.logger.Warnf("record mutation: %v", err)
			monitoring.CaptureException(err, map[string]string{"module": "director", "op": string(op)})
		}
	}
	d.publish(Event{
		SessionID:    d.sessionID,
		Op:           op,
		RideID:       rideID,
		VehicleID:    vehicleID,
		RidesUpdated: updated,
		Time:         now,
	})
	d.logger.Debugf("%s ride %d on vehicle %d, %d arrivals updated", op, rideID, vehicleID, updated)
}

func (d *Director) publish(e Event) {
	if d.bus != nil {
		d.bus.Publish(e)
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)          {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)           {}
func (nopLogger) Infow(string, map[string]any)  {}
func (nopLogger) Warnf(string, ...any)           {}
func (nopLogger) Errorf(string, ...any)          {}
