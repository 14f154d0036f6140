package metrics

import "time"

// ScoreEvent is emitted every time a solution is scored.
type ScoreEvent struct {
	SessionID   string
	Solution    string
	HardPenalty int64
	SoftPenalty int64
	Distance    int64
	Assigned    int
	Unassigned  int
	Feasible    bool
	Duration    time.Duration
	Time        time.Time
}

// MutationEvent describes one chain mutation and the propagation it caused.
type MutationEvent struct {
	SessionID    string
	Op           string
	RideID       int64
	VehicleID    int64
	RidesUpdated int
	Time         time.Time
}

// ScoreSink records score evaluations. It is the only method every sink must
// support.
type ScoreSink interface {
	RecordScore(ev ScoreEvent) error
}

// MutationRecorder is implemented by sinks that also track chain mutations.
type MutationRecorder interface {
	RecordMutation(ev MutationEvent) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordScore(ScoreEvent) error       { return nil }
func (NopSink) RecordMutation(MutationEvent) error { return nil }

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []ScoreSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...ScoreSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordScore forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordScore(ev ScoreEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordScore(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordMutation forwards the event to the sinks that support it.
func (m *MultiSink) RecordMutation(ev MutationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(MutationRecorder); ok {
			if err := rec.RecordMutation(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
