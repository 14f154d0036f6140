package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/vrppd/core/factory"
	coremetrics "github.com/kilianp07/vrppd/core/metrics"
)

type lineServer struct {
	mu     sync.Mutex
	bodies []string
}

func (l *lineServer) handler(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	l.mu.Lock()
	l.bodies = append(l.bodies, strings.TrimSpace(string(data)))
	l.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func TestInfluxSink_RecordScore(t *testing.T) {
	ls := &lineServer{}
	srv := httptest.NewServer(http.HandlerFunc(ls.handler))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer func() { _ = sink.Close() }()
	now := time.Now()
	ev := coremetrics.ScoreEvent{
		SessionID:   "s1",
		Solution:    "demo",
		HardPenalty: 20,
		SoftPenalty: 12000,
		Distance:    12000,
		Assigned:    2,
		Unassigned:  0,
		Feasible:    false,
		Duration:    1500 * time.Microsecond,
		Time:        now,
	}
	if err := sink.RecordScore(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("score_evaluation").
		AddTag("solution", "demo").
		AddTag("session_id", "s1").
		AddTag("feasible", "false").
		AddField("hard_penalty", int64(20)).
		AddField("soft_penalty", int64(12000)).
		AddField("distance", int64(12000)).
		AddField("assigned", 2).
		AddField("unassigned", 0).
		AddField("duration_ms", 1.5).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(ls.bodies) != 1 || ls.bodies[0] != expected {
		t.Errorf("unexpected bodies: %#v", ls.bodies)
	}
}

func TestInfluxSink_RecordMutation(t *testing.T) {
	ls := &lineServer{}
	srv := httptest.NewServer(http.HandlerFunc(ls.handler))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	now := time.Now()
	ev := coremetrics.MutationEvent{SessionID: "s1", Op: "insert", RideID: 7, VehicleID: 1, RidesUpdated: 3, Time: now}
	if err := sink.RecordMutation(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("chain_mutation").
		AddTag("op", "insert").
		AddTag("session_id", "s1").
		AddField("ride_id", int64(7)).
		AddField("vehicle_id", int64(1)).
		AddField("rides_updated", 3).
		SetTime(now)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(ls.bodies) != 1 || ls.bodies[0] != exp {
		t.Errorf("bodies: %#v", ls.bodies)
	}
}

func TestRound3(t *testing.T) {
	cases := map[float64]float64{
		1.5:     1.5,
		0.00149: 0.001,
		-0.0016: -0.002,
		-2.5004: -2.5,
		1e16:    1e16,
	}
	for in, want := range cases {
		if got := round3(in); got != want {
			t.Errorf("round3(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}

func TestBuiltinSinks(t *testing.T) {
	s, err := coremetrics.NewSink([]factory.ModuleConfig{{Type: "nop"}})
	if err != nil {
		t.Fatalf("nop: %v", err)
	}
	if _, ok := s.(coremetrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}
	if _, err := coremetrics.NewSink([]factory.ModuleConfig{{Type: "influx", Conf: map[string]any{"org": "o"}}}); err == nil {
		t.Fatal("expected missing url error")
	}
	s, err = coremetrics.NewSink([]factory.ModuleConfig{{Type: "influx", Conf: map[string]any{
		"url": "http://127.0.0.1:1", "bucket": "b", "fallback": false,
	}}})
	if err != nil {
		t.Fatalf("influx: %v", err)
	}
	if _, ok := s.(*InfluxSink); !ok {
		t.Fatalf("expected InfluxSink, got %T", s)
	}
	names := coremetrics.SinkTypes()
	for _, want := range []string{"influx", "nop", "prometheus"} {
		found := false
		for _, n := range names {
			found = found || n == want
		}
		if !found {
			t.Fatalf("sink %s not registered: %v", want, names)
		}
	}
}
