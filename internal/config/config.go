package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConfigFileName is looked up in the working directory when no --config is given
const ConfigFileName = "metalinker.yaml"

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config holds defaults for the metalinker commands. Command-line flags win
// over values read from the file.
type Config struct {
	Output   string `yaml:"output"`
	Keyring  string `yaml:"keyring,omitempty"`  // Public keyring for signature checks
	Location string `yaml:"location,omitempty"` // Mirror country filter
	Type     string `yaml:"type,omitempty"`     // Mirror transport filter
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Output: OutputText,
	}
}

// Load reads a YAML config file on top of the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configured values
func (c *Config) Validate() error {
	if err := ValidateOutput(c.Output); err != nil {
		return err
	}
	return nil
}

// ValidateOutput checks an output format name
func ValidateOutput(output string) error {
	switch output {
	case OutputText, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected text, json or yaml)", output)
	}
}
