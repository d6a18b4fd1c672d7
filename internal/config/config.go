// Package config loads the server's YAML configuration: the
// persistence root, listen address, supported serializer versions, and
// log level.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chahine-tech/reldb/internal/errs"
)

// Config holds every value the server needs at startup.
type Config struct {
	Root              string `yaml:"root"`
	ListenAddr        string `yaml:"listen_addr"`
	SupportedVersions []byte `yaml:"supported_versions"`
	LogLevel          string `yaml:"log_level"`
}

// Default returns the built-in configuration used when no file is
// given.
func Default() *Config {
	return &Config{
		Root:              "./data",
		ListenAddr:        "127.0.0.1:5432",
		SupportedVersions: []byte{1, 2},
		LogLevel:          "info",
	}
}

// Load reads and parses a YAML config file. An empty path returns the
// defaults. Any field left zero-valued in the file falls back to the
// corresponding default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.FSError(err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errs.FSError(err)
	}
	if len(cfg.SupportedVersions) == 0 {
		cfg.SupportedVersions = Default().SupportedVersions
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = Default().LogLevel
	}
	return cfg, nil
}
