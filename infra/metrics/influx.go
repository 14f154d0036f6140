package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/vrppd/core/metrics"
	"github.com/kilianp07/vrppd/infra/logger"
)

// InfluxSink writes score and mutation events to InfluxDB.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given endpoint. A trailing
// /api/v2/write in url is tolerated.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings InfluxDB and returns a NopSink when the
// instance is not healthy, so scoring keeps working without it.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.ScoreSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordScore writes a score_evaluation point.
func (s *InfluxSink) RecordScore(ev coremetrics.ScoreEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("score_evaluation").
		AddTag("solution", ev.Solution).
		AddTag("session_id", ev.SessionID).
		AddTag("feasible", strconv.FormatBool(ev.Feasible)).
		AddField("hard_penalty", ev.HardPenalty).
		AddField("soft_penalty", ev.SoftPenalty).
		AddField("distance", ev.Distance).
		AddField("assigned", ev.Assigned).
		AddField("unassigned", ev.Unassigned).
		AddField("duration_ms", round3(float64(ev.Duration)/float64(time.Millisecond))).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordMutation writes a chain_mutation point.
func (s *InfluxSink) RecordMutation(ev coremetrics.MutationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("chain_mutation").
		AddTag("op", ev.Op).
		AddTag("session_id", ev.SessionID).
		AddField("ride_id", ev.RideID).
		AddField("vehicle_id", ev.VehicleID).
		AddField("rides_updated", ev.RidesUpdated).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
