package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/vrppd/core/factory"
	coremetrics "github.com/kilianp07/vrppd/core/metrics"
	"github.com/kilianp07/vrppd/infra/logger"
)

func init() {
	_ = coremetrics.RegisterSink("mqtt", func(conf map[string]any) (coremetrics.ScoreSink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSink(c)
	})
}

// Sink publishes score and mutation events as JSON under
// <topic_prefix>/score and <topic_prefix>/mutation. Publish failures are
// returned to the caller, which reports them.
type Sink struct {
	cli        pahoClient
	prefix     string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	logger     logger.Logger
}

type scorePayload struct {
	SessionID   string  `json:"session_id"`
	Solution    string  `json:"solution"`
	HardPenalty int64   `json:"hard_penalty"`
	SoftPenalty int64   `json:"soft_penalty"`
	Distance    int64   `json:"distance"`
	Assigned    int     `json:"assigned"`
	Unassigned  int     `json:"unassigned"`
	Feasible    bool    `json:"feasible"`
	DurationMS  float64 `json:"duration_ms"`
	Timestamp   int64   `json:"timestamp"`
}

type mutationPayload struct {
	SessionID    string `json:"session_id"`
	Op           string `json:"op"`
	RideID       int64  `json:"ride_id"`
	VehicleID    int64  `json:"vehicle_id"`
	RidesUpdated int    `json:"rides_updated"`
	Timestamp    int64  `json:"timestamp"`
}

// NewSink connects to the broker described by cfg.
func NewSink(cfg Config) (*Sink, error) {
	log := logger.New("mqtt_sink")
	cli, err := connect(cfg, log)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimSuffix(cfg.TopicPrefix, "/")
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	return &Sink{
		cli:        cli,
		prefix:     prefix,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: retries,
		backoff:    cfg.backoff(),
		logger:     log,
	}, nil
}

// RecordScore publishes ev on the score topic.
func (s *Sink) RecordScore(ev coremetrics.ScoreEvent) error {
	return s.publish("score", ev.SessionID, scorePayload{
		SessionID:   ev.SessionID,
		Solution:    ev.Solution,
		HardPenalty: ev.HardPenalty,
		SoftPenalty: ev.SoftPenalty,
		Distance:    ev.Distance,
		Assigned:    ev.Assigned,
		Unassigned:  ev.Unassigned,
		Feasible:    ev.Feasible,
		DurationMS:  float64(ev.Duration) / float64(time.Millisecond),
		Timestamp:   ev.Time.UnixMilli(),
	})
}

// RecordMutation publishes ev on the mutation topic.
func (s *Sink) RecordMutation(ev coremetrics.MutationEvent) error {
	return s.publish("mutation", ev.SessionID, mutationPayload{
		SessionID:    ev.SessionID,
		Op:           ev.Op,
		RideID:       ev.RideID,
		VehicleID:    ev.VehicleID,
		RidesUpdated: ev.RidesUpdated,
		Timestamp:    ev.Time.UnixMilli(),
	})
}

func (s *Sink) publish(kind, session string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	topic := s.prefix + "/" + kind
	var publishErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		token := s.cli.Publish(topic, s.qos, s.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			s.logger.Debugf("published %s to %s", kind, topic)
			return nil
		}
		s.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < s.maxRetries {
			time.Sleep(s.backoff * time.Duration(1<<attempt))
		}
	}
	return fmt.Errorf("publish %s (session %s): %w", topic, session, publishErr)
}

// Close disconnects from the broker.
func (s *Sink) Close() error {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
	return nil
}
