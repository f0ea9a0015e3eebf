// Package config loads the sequencer's YAML configuration, following
// the same os.ReadFile + yaml.Unmarshal shape as the teacher's own
// internal/config.ParseConfig.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the sequencer process's configuration.
type Config struct {
	// Port is the port the TestSequencer service binds on, at the
	// wildcard IPv6 address [::]:<port>.
	Port int `yaml:"port"`

	// ServerCredentials and NodeCredentials name the credentials
	// profile to use for, respectively, the sequencer's own listening
	// socket and its outgoing connections to node managers. "insecure"
	// (or the empty string) is the only profile this repository ships;
	// any other name is rejected when the credentials are resolved, so
	// TLS is not configurable here.
	ServerCredentials string `yaml:"server_credentials"`
	NodeCredentials   string `yaml:"node_credentials"`

	// AuditDBPath is the bbolt file the audit sink writes completed
	// TestSequenceResults to. Empty disables auditing.
	AuditDBPath string `yaml:"audit_db_path"`
}

// ParseConfig reads and unmarshals the YAML configuration at cfgPath.
func ParseConfig(cfgPath string) (*Config, error) {
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return &Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &Config{}, err
	}
	if cfg.Port <= 0 {
		return &Config{}, fmt.Errorf("config %s: port must be positive", cfgPath)
	}
	return &cfg, nil
}
