package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/vrppd/core/demo"
	"github.com/kilianp07/vrppd/core/metrics"
	"github.com/kilianp07/vrppd/core/scorelog"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `problem:
  name: "bench"
  ride_count: 12
  vehicle_count: 3
  seed: 7
  order: "distance"
  windows:
    day_start: 28800000
    day_end: 64800000
    length: 7200000
    service: 600000
logging:
  level: "debug"
  console: true
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: "nop"
    - type: "influx"
      conf:
        url: "http://localhost:8086"
        bucket: "vrp"
score_log:
  backend: "sqlite"
  path: "scores.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"problem.name", cfg.Problem.Name, "bench"},
		{"problem.ride_count", cfg.Problem.RideCount, 12},
		{"problem.vehicle_count", cfg.Problem.VehicleCount, 3},
		{"problem.depot_count default", cfg.Problem.DepotCount, 1},
		{"problem.vehicle_capacity default", cfg.Problem.VehicleCapacity, 40},
		{"problem.seed", cfg.Problem.Seed, uint64(7)},
		{"problem.order", cfg.Problem.Order, "distance"},
		{"problem.windows.length", cfg.Problem.Windows.Length, int64(7200000)},
		{"problem.distance_unit default", cfg.Problem.DistanceUnit, "km"},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.console", cfg.Logging.Console, true},
		{"metrics.prometheus_addr", cfg.Metrics.PrometheusAddr, ":9100"},
		{"metrics.sinks", len(cfg.Metrics.Sinks), 2},
		{"metrics.influx.bucket", cfg.Metrics.Sinks[1].Conf["bucket"], "vrp"},
		{"score_log.backend", cfg.ScoreLog.Backend, "sqlite"},
		{"score_log.path", cfg.ScoreLog.Path, "scores.db"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: got %v want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadJSONWithEnvOverride(t *testing.T) {
	path := writeFile(t, "config.json", `{"problem": {"ride_count": 5}, "logging": {"level": "warn"}}`)
	t.Setenv("VRPPD_PROBLEM__RIDE_COUNT", "9")
	t.Setenv("VRPPD_SCORE_LOG__BACKEND", "jsonl")
	t.Setenv("VRPPD_SCORE_LOG__PATH", "scores.jsonl")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Problem.RideCount != 9 {
		t.Errorf("env override not applied: %d", cfg.Problem.RideCount)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level %s", cfg.Logging.Level)
	}
	if cfg.ScoreLog.Backend != "jsonl" || cfg.ScoreLog.Path != "scores.jsonl" {
		t.Errorf("score log %+v", cfg.ScoreLog)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	want := demo.Florence()
	got := cfg.Problem.Builder()
	if got.RideCount != want.RideCount || got.SouthWest != want.SouthWest || got.NorthEast != want.NorthEast {
		t.Errorf("defaults differ from the demo data set: %+v", got)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level default %s", cfg.Logging.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		data    string
		wantErr []string
	}{
		{name: "format", file: "config.toml", data: "", wantErr: []string{"unsupported config format"}},
		{name: "all sections", file: "config.yaml", data: `problem:
  order: "random"
logging:
  level: "loud"
score_log:
  backend: "csv"
metrics:
  sinks:
    - conf: {}
`, wantErr: []string{"difficulty order", "unknown level loud", "unknown backend csv", "sink 0 has no type"}},
		{name: "builder", file: "config.yaml", data: `problem:
  min_demand: 3
  max_demand: 2
`, wantErr: []string{"maxDemand (2) must be greater than minDemand (3)"}},
		{name: "score log path", file: "config.yaml", data: `score_log:
  backend: "sqlite"
`, wantErr: []string{"path is required"}},
		{name: "api token", file: "config.yaml", data: `api:
  token: "secret"
`, wantErr: []string{"api: token set without addr"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.data))
			if err == nil {
				t.Fatalf("expected error")
			}
			for _, w := range tt.wantErr {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q does not mention %q", err, w)
				}
			}
		})
	}
}

func TestSectionsDecodeFromYAML(t *testing.T) {
	var doc struct {
		Metrics  metrics.Config  `yaml:"metrics"`
		ScoreLog scorelog.Config `yaml:"score_log"`
	}
	data := []byte(`metrics:
  sinks:
    - type: prometheus
score_log:
  backend: jsonl
  path: out.jsonl
`)
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Metrics.Sinks) != 1 || doc.Metrics.Sinks[0].Type != "prometheus" || doc.Metrics.Sinks[0].Conf != nil {
		t.Errorf("sinks %+v", doc.Metrics.Sinks)
	}
	if doc.ScoreLog.Backend != "jsonl" || doc.ScoreLog.Path != "out.jsonl" {
		t.Errorf("score log %+v", doc.ScoreLog)
	}
}
