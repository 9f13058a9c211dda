package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "192.168.1.1", cfg.Sweep.StartIP)
	assert.Equal(t, "192.168.1.255", cfg.Sweep.EndIP)
	assert.Equal(t, "5037,5555,22,23", cfg.Sweep.Ports)
	assert.Equal(t, 50, cfg.Sweep.Threads)
	assert.InDelta(t, 1.0, cfg.Sweep.TimeoutSec, 0.001)
	assert.True(t, cfg.Sweep.ScanADB)
	assert.True(t, cfg.Sweep.ScanSSH)
	assert.True(t, cfg.Sweep.ScanTelnet)
	assert.False(t, cfg.Sweep.SkipPing)

	assert.Equal(t, "table", cfg.Export.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)

	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
sweep:
  start_ip: 10.0.0.1
  end_ip: 10.0.0.50
  ports: "5555"
  threads: 20
  timeout_sec: 2.5
  skip_ping: true
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1", cfg.Sweep.StartIP)
	assert.Equal(t, "10.0.0.50", cfg.Sweep.EndIP)
	assert.Equal(t, "5555", cfg.Sweep.Ports)
	assert.Equal(t, 20, cfg.Sweep.Threads)
	assert.InDelta(t, 2.5, cfg.Sweep.TimeoutSec, 0.001)
	assert.True(t, cfg.Sweep.SkipPing)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, "table", cfg.Export.Format)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sweep: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{
			name:   "defaults",
			mutate: func(c *Config) {},
			valid:  true,
		},
		{
			name:   "bad start address",
			mutate: func(c *Config) { c.Sweep.StartIP = "not-an-ip" },
		},
		{
			name:   "hostname rejected",
			mutate: func(c *Config) { c.Sweep.EndIP = "router.local" },
		},
		{
			name:   "empty ports",
			mutate: func(c *Config) { c.Sweep.Ports = "" },
		},
		{
			name:   "zero threads",
			mutate: func(c *Config) { c.Sweep.Threads = 0 },
		},
		{
			name:   "timeout above bound",
			mutate: func(c *Config) { c.Sweep.TimeoutSec = 60 },
		},
		{
			name:   "unknown export format",
			mutate: func(c *Config) { c.Export.Format = "xml" },
		},
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
		},
		{
			name:   "unknown log format",
			mutate: func(c *Config) { c.Logging.Format = "logfmt" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Sweep.StartIP = "172.16.0.1"
	cfg.Sweep.Profile = "deep"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestScanConfigConversion(t *testing.T) {
	cfg := Default()
	cfg.Sweep.Profile = "quick"
	cfg.Sweep.MaxTargets = 1000

	sc := cfg.ScanConfig()
	assert.Equal(t, cfg.Sweep.StartIP, sc.StartIP)
	assert.Equal(t, cfg.Sweep.EndIP, sc.EndIP)
	assert.Equal(t, cfg.Sweep.Ports, sc.Ports)
	assert.Equal(t, "quick", sc.Profile)
	assert.Equal(t, uint64(1000), sc.MaxTargets)
}
