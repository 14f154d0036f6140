package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/vrppd/core/metrics"
	"github.com/kilianp07/vrppd/core/scorelog"
)

// EnvPrefix prefixes environment overrides. VRPPD_PROBLEM__RIDE_COUNT sets
// problem.ride_count.
const EnvPrefix = "VRPPD_"

type Config struct {
	Problem  ProblemConfig   `json:"problem"`
	Logging  LoggingConfig   `json:"logging"`
	Metrics  metrics.Config  `json:"metrics"`
	ScoreLog scorelog.Config `json:"score_log"`
	Sentry   SentryConfig    `json:"sentry"`
	API      APIConfig       `json:"api"`
}

var errSampleRate = errors.New("traces_sample_rate must be within [0, 1]")

// Load reads the file at path, applies environment overrides and defaults,
// and validates the result. An empty path loads defaults and environment
// only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Problem.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate reports the problems of every section at once.
func (c Config) Validate() error {
	var errs []error
	if err := c.Problem.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("problem: %w", err))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if err := validateScoreLog(c.ScoreLog); err != nil {
		errs = append(errs, fmt.Errorf("score_log: %w", err))
	}
	if err := c.Sentry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sentry: %w", err))
	}
	if err := c.API.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("api: %w", err))
	}
	for i, s := range c.Metrics.Sinks {
		if s.Type == "" {
			errs = append(errs, fmt.Errorf("metrics: sink %d has no type", i))
		}
	}
	return errors.Join(errs...)
}

func validateScoreLog(c scorelog.Config) error {
	switch c.Backend {
	case "", "none":
		return nil
	case "jsonl", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("path is required for backend %s", c.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("rotation limits must not be negative")
	}
	return nil
}
