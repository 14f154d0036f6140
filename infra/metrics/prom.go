package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/vrppd/core/metrics"
)

// PromSink exposes score evaluations and mutations as Prometheus metrics.
type PromSink struct {
	hard        *prometheus.GaugeVec
	soft        *prometheus.GaugeVec
	unassigned  *prometheus.GaugeVec
	evaluations *prometheus.CounterVec
	evalTime    prometheus.Histogram
	mutations   *prometheus.CounterVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the metrics on reg, reusing collectors
// that are already registered. A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		hard: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vrp_score_hard_penalty",
			Help: "Hard penalty of the last evaluated solution",
		}, []string{"solution"}),
		soft: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vrp_score_soft_penalty",
			Help: "Soft penalty (driven distance) of the last evaluated solution",
		}, []string{"solution"}),
		unassigned: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vrp_unassigned_rides",
			Help: "Rides not assigned to any vehicle",
		}, []string{"solution"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vrp_score_evaluations_total",
			Help: "Number of score evaluations",
		}, []string{"feasible"}),
		evalTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vrp_score_evaluation_seconds",
			Help:    "Time spent evaluating a solution",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vrp_sink_mutations_total",
			Help: "Chain mutations seen by the metrics sink",
		}, []string{"op"}),
	}
	var err error
	if s.hard, err = register(reg, s.hard); err != nil {
		return nil, err
	}
	if s.soft, err = register(reg, s.soft); err != nil {
		return nil, err
	}
	if s.unassigned, err = register(reg, s.unassigned); err != nil {
		return nil, err
	}
	if s.evaluations, err = register(reg, s.evaluations); err != nil {
		return nil, err
	}
	if s.evalTime, err = register(reg, s.evalTime); err != nil {
		return nil, err
	}
	if s.mutations, err = register(reg, s.mutations); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordScore updates the score gauges.
func (s *PromSink) RecordScore(ev coremetrics.ScoreEvent) error {
	s.hard.WithLabelValues(ev.Solution).Set(float64(ev.HardPenalty))
	s.soft.WithLabelValues(ev.Solution).Set(float64(ev.SoftPenalty))
	s.unassigned.WithLabelValues(ev.Solution).Set(float64(ev.Unassigned))
	s.evaluations.WithLabelValues(strconv.FormatBool(ev.Feasible)).Inc()
	s.evalTime.Observe(ev.Duration.Seconds())
	return nil
}

// RecordMutation counts mutations by operation.
func (s *PromSink) RecordMutation(ev coremetrics.MutationEvent) error {
	s.mutations.WithLabelValues(ev.Op).Inc()
	return nil
}
