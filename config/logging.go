package config

import (
	"fmt"
	"strings"

	"github.com/kilianp07/vrppd/infra/logger"
)

// LoggingConfig controls application log output.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level"`
	// Console selects the human readable writer instead of JSON lines.
	Console bool `json:"console"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level name.
func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "trace", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown level %s", c.Level)
}

// Options converts the section to logger options.
func (c LoggingConfig) Options() logger.Options {
	return logger.Options{Level: c.Level, Console: c.Console}
}
