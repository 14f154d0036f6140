package director

import "github.com/prometheus/client_golang/prometheus"

var (
	mutationsTotal *prometheus.CounterVec
	ridesUpdated   prometheus.Histogram
	scoreLatency   prometheus.Histogram
)

func newCollectors() (*prometheus.CounterVec, prometheus.Histogram, prometheus.Histogram) {
	mut := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vrp_chain_mutations_total",
			Help: "Chain mutations applied through the director",
		},
		[]string{"op"},
	)
	upd := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vrp_propagation_rides_updated",
			Help:    "Arrival times rewritten by one mutation",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
		},
	)
	lat := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vrp_score_calculation_seconds",
			Help:    "Time spent evaluating the constraints",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)
	return mut, upd, lat
}

func init() {
	mutationsTotal, ridesUpdated, scoreLatency = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers the director metrics on reg, or on the
// default registerer when reg is nil.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(mutationsTotal, ridesUpdated, scoreLatency)
}

// ResetMetrics recreates the collectors for tests and registers them on reg
// when it is not nil.
func ResetMetrics(reg prometheus.Registerer) {
	mutationsTotal, ridesUpdated, scoreLatency = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
