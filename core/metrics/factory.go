package metrics

import "github.com/kilianp07/vrppd/core/factory"

// Config lists the sinks to build.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr, when set, exposes /metrics on this address.
	PrometheusAddr string `json:"prometheus_addr"`
}

var sinkRegistry = factory.NewRegistry[ScoreSink]()

// RegisterSink adds a sink factory identified by name.
func RegisterSink(name string, f factory.Factory[ScoreSink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink names.
func SinkTypes() []string { return sinkRegistry.Names() }

// NewSink builds the configured sinks. No configuration yields a NopSink and
// several yield a MultiSink.
func NewSink(cfgs []factory.ModuleConfig) (ScoreSink, error) {
	switch len(cfgs) {
	case 0:
		return NopSink{}, nil
	case 1:
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]ScoreSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
