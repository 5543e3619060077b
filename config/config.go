package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the run configuration loaded from a YAML file. A missing
// config file is not an error; the tool runs on defaults.
type Config struct {
	// OutputFile is where the validated customer document is written.
	OutputFile string `yaml:"outputFile"`
	// TimestampOutput derives the output filename from the run timestamp
	// instead of overwriting OutputFile.
	TimestampOutput bool `yaml:"timestampOutput"`
	// LogFile is the append-only diagnostics log.
	LogFile string `yaml:"logFile"`
	// HeaderlessInput maps file columns by position (name, IP, mask,
	// optional service code) instead of by header names.
	HeaderlessInput bool `yaml:"headerlessInput"`
	// ServiceTags maps a row's service code to the tag attached to the
	// record.
	ServiceTags map[string]string `yaml:"serviceTags"`
	// ResolveHostnames substitutes hostnames in the address column of
	// ingested files with their first A record.
	ResolveHostnames bool `yaml:"resolveHostnames"`
	// DNSServer is the host:port queried when ResolveHostnames is set.
	DNSServer string `yaml:"dnsServer"`
}

// LoadConfig reads and unmarshals the configuration from the specified YAML
// file path, applying defaults for missing values.
func LoadConfig(filePath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file %s: %w", filePath, err)
	}

	// Apply sensible defaults if values are missing
	if cfg.OutputFile == "" {
		cfg.OutputFile = "customers.yml"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "customer-processing.log"
	}
	if cfg.DNSServer == "" {
		cfg.DNSServer = "8.8.8.8:53"
	}

	return &cfg, nil
}
