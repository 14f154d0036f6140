// Package infra holds the adapters behind the core interfaces: the zerolog
// logger, the Prometheus, InfluxDB and MQTT score sinks, and the Sentry
// monitor. Core packages never import infra; the app package wires them.
package infra
