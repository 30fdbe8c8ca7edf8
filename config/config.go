package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the morpheusd service configuration.
type Config struct {
	RPCAddress           string  `toml:"RPCAddress"`
	DataDir              string  `toml:"DataDir"`
	RPCAuthToken         string  `toml:"RPCAuthToken"`
	OfficialBuildersFile string  `toml:"OfficialBuildersFile"`
	AnnualGrowthRate     float64 `toml:"AnnualGrowthRate"`
	CacheTTLSeconds      uint64  `toml:"CacheTTLSeconds"`
	RateLimitPerMinute   float64 `toml:"RateLimitPerMinute"`
	RateLimitBurst       int     `toml:"RateLimitBurst"`

	Log       LogConfig       `toml:"log"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// LogConfig controls structured log output and rotation.
type LogConfig struct {
	File       string `toml:"File"`
	MaxSizeMB  int    `toml:"MaxSizeMB"`
	MaxBackups int    `toml:"MaxBackups"`
	MaxAgeDays int    `toml:"MaxAgeDays"`
}

// TelemetryConfig wires the OTLP exporters. An empty endpoint disables
// telemetry.
type TelemetryConfig struct {
	Endpoint string `toml:"Endpoint"`
	Insecure bool   `toml:"Insecure"`
	Traces   bool   `toml:"Traces"`
	Metrics  bool   `toml:"Metrics"`
	Headers  string `toml:"Headers"`
}

// Default returns the configuration written on first run.
func Default() Config {
	return Config{
		RPCAddress:         "127.0.0.1:8645",
		DataDir:            "./morpheusd-data",
		AnnualGrowthRate:   0.10,
		CacheTTLSeconds:    300,
		RateLimitPerMinute: 600,
		RateLimitBurst:     20,
	}
}

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s contains unknown field %q", path, undecoded[0].String())
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func createDefault(path string) (*Config, error) {
	cfg := Default()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	defaults := Default()
	if strings.TrimSpace(cfg.RPCAddress) == "" {
		cfg.RPCAddress = defaults.RPCAddress
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = defaults.DataDir
	}
	if cfg.AnnualGrowthRate == 0 {
		cfg.AnnualGrowthRate = defaults.AnnualGrowthRate
	}
	if cfg.CacheTTLSeconds == 0 {
		cfg.CacheTTLSeconds = defaults.CacheTTLSeconds
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = defaults.RateLimitPerMinute
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = defaults.RateLimitBurst
	}
}

// Validate ensures the configuration is internally consistent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RPCAddress) == "" {
		return fmt.Errorf("RPCAddress must not be empty")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("DataDir must not be empty")
	}
	if c.AnnualGrowthRate < -1 || c.AnnualGrowthRate > 10 {
		return fmt.Errorf("AnnualGrowthRate %v out of range [-1, 10]", c.AnnualGrowthRate)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RateLimitPerMinute must not be negative")
	}
	if c.OfficialBuildersFile != "" {
		if _, err := os.Stat(c.OfficialBuildersFile); err != nil {
			return fmt.Errorf("OfficialBuildersFile: %w", err)
		}
	}
	return nil
}

// CacheTTL returns the default cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
