// Package config loads and validates the adbsweep application
// configuration from YAML files with sensible defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/adbsweep/adbsweep/internal/sweep"
)

// Config is the complete application configuration.
type Config struct {
	// Sweep configuration
	Sweep SweepConfig `yaml:"sweep" json:"sweep"`

	// Export configuration
	Export ExportConfig `yaml:"export" json:"export"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SweepConfig holds sweep-related settings.
type SweepConfig struct {
	// First address of the range, inclusive
	StartIP string `yaml:"start_ip" json:"start_ip" validate:"required,ipv4"`

	// Last address of the range, inclusive
	EndIP string `yaml:"end_ip" json:"end_ip" validate:"required,ipv4"`

	// Port specification: single port, range, or comma list
	Ports string `yaml:"ports" json:"ports" validate:"required"`

	// Number of concurrent probe workers
	Threads int `yaml:"threads" json:"threads" validate:"gte=1"`

	// Per-probe timeout in seconds
	TimeoutSec float64 `yaml:"timeout_sec" json:"timeout_sec" validate:"gte=0.1,lte=10"`

	// Named preset overriding threads and timeout when set
	Profile string `yaml:"profile" json:"profile"`

	// Protocol classification toggles
	ScanADB    bool `yaml:"scan_adb" json:"scan_adb"`
	ScanSSH    bool `yaml:"scan_ssh" json:"scan_ssh"`
	ScanTelnet bool `yaml:"scan_telnet" json:"scan_telnet"`

	// Skip the ping reachability pre-check
	SkipPing bool `yaml:"skip_ping" json:"skip_ping"`

	// Safety cap on generated targets, 0 for unlimited
	MaxTargets uint64 `yaml:"max_targets" json:"max_targets"`
}

// ExportConfig holds report output settings.
type ExportConfig struct {
	// Output format (table, json, csv)
	Format string `yaml:"format" json:"format" validate:"oneof=table json csv"`

	// Output directory for report files
	Directory string `yaml:"directory" json:"directory"`

	// Include closed-port results in exports
	IncludeClosed bool `yaml:"include_closed" json:"include_closed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`

	// Log format (text, json)
	Format string `yaml:"format" json:"format" validate:"oneof=text json"`

	// Log output (stdout, stderr, file path)
	Output string `yaml:"output" json:"output" validate:"required"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Sweep: SweepConfig{
			StartIP:    "192.168.1.1",
			EndIP:      "192.168.1.255",
			Ports:      "5037,5555,22,23",
			Threads:    50,
			TimeoutSec: 1.0,
			ScanADB:    true,
			ScanSSH:    true,
			ScanTelnet: true,
		},
		Export: ExportConfig{
			Format:    "table",
			Directory: ".",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load loads configuration from a file, starting from defaults. A missing
// file is not an error; defaults are returned unchanged.
func Load(path string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save writes the configuration to a file as YAML.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks structural validity of the configuration. The sweep
// section gets a second, authoritative pass through the engine's own
// validation when a session starts.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config field %s failed %q validation", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}

// ScanConfig converts the sweep section into the engine's raw scan
// configuration.
func (c *Config) ScanConfig() sweep.ScanConfig {
	return sweep.ScanConfig{
		StartIP:    c.Sweep.StartIP,
		EndIP:      c.Sweep.EndIP,
		Ports:      c.Sweep.Ports,
		Threads:    c.Sweep.Threads,
		TimeoutSec: c.Sweep.TimeoutSec,
		ScanADB:    c.Sweep.ScanADB,
		ScanSSH:    c.Sweep.ScanSSH,
		ScanTelnet: c.Sweep.ScanTelnet,
		SkipPing:   c.Sweep.SkipPing,
		Profile:    c.Sweep.Profile,
		MaxTargets: c.Sweep.MaxTargets,
	}
}
