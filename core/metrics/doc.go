// Package metrics defines the sinks that observe score evaluations and chain
// mutations. Implementations such as the Prometheus and InfluxDB sinks live in
// infra/metrics and register themselves by name; NewSink builds them from
// configuration and wraps several in a MultiSink.
package metrics
