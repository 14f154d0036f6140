package metrics

import (
	"fmt"

	"github.com/kilianp07/vrppd/core/factory"
	coremetrics "github.com/kilianp07/vrppd/core/metrics"
)

// init registers the built-in sinks.
func init() {
	_ = coremetrics.RegisterSink("nop", func(map[string]any) (coremetrics.ScoreSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterSink("prometheus", func(conf map[string]any) (coremetrics.ScoreSink, error) {
		if err := factory.Decode(conf, &struct{}{}); err != nil {
			return nil, err
		}
		return NewPromSink()
	})

	_ = coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.ScoreSink, error) {
		var c struct {
			URL      string `json:"url"`
			Token    string `json:"token"`
			Org      string `json:"org"`
			Bucket   string `json:"bucket"`
			Fallback *bool  `json:"fallback"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.URL == "" || c.Bucket == "" {
			return nil, fmt.Errorf("influx sink needs url and bucket")
		}
		if c.Fallback != nil && !*c.Fallback {
			return NewInfluxSink(c.URL, c.Token, c.Org, c.Bucket), nil
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
