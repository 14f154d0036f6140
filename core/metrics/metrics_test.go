package metrics

import (
	"errors"
	"testing"

	"github.com/kilianp07/vrppd/core/factory"
)

type recordSink struct {
	scores    int
	mutations int
	err       error
}

func (r *recordSink) RecordScore(ScoreEvent) error {
	r.scores++
	return r.err
}

func (r *recordSink) RecordMutation(MutationEvent) error {
	r.mutations++
	return r.err
}

type scoreOnly struct{ n int }

func (s *scoreOnly) RecordScore(ScoreEvent) error {
	s.n++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &scoreOnly{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordScore(ScoreEvent{}); err != nil {
		t.Fatalf("record score: %v", err)
	}
	if err := m.RecordMutation(MutationEvent{}); err != nil {
		t.Fatalf("record mutation: %v", err)
	}
	if s1.scores != 1 || s1.mutations != 1 || s2.n != 1 {
		t.Fatalf("events not forwarded: %+v %+v", s1, s2)
	}
}

func TestMultiSinkStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordScore(ScoreEvent{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if s2.scores != 0 {
		t.Fatal("second sink should not be reached")
	}
}

func TestNewSink(t *testing.T) {
	s, err := NewSink(nil)
	if err != nil {
		t.Fatalf("nil config: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	if err := RegisterSink("record-test", func(map[string]any) (ScoreSink, error) { return &recordSink{}, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	s, err = NewSink([]factory.ModuleConfig{{Type: "record-test"}})
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	if _, ok := s.(*recordSink); !ok {
		t.Fatalf("expected recordSink, got %T", s)
	}
	s, err = NewSink([]factory.ModuleConfig{{Type: "record-test"}, {Type: "record-test"}})
	if err != nil {
		t.Fatalf("multi: %v", err)
	}
	if ms, ok := s.(*MultiSink); !ok || len(ms.Sinks) != 2 {
		t.Fatalf("expected MultiSink of two, got %T", s)
	}
	if _, err := NewSink([]factory.ModuleConfig{{Type: "record-test"}, {Type: "missing"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}
