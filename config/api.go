package config

import "fmt"

// APIConfig enables the read-only HTTP endpoints when Addr is set.
type APIConfig struct {
	Addr  string `json:"addr"`
	Token string `json:"token"`
}

func (c APIConfig) Validate() error {
	if c.Token != "" && c.Addr == "" {
		return fmt.Errorf("token set without addr")
	}
	return nil
}
