package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the runtime configuration shared by the gateway daemon and the
// CLI. A missing file is not an error: Load writes the defaults back so a
// fresh checkout comes up on a loopback listener with auth disabled.
type Config struct {
	ListenAddress string `toml:"ListenAddress"`
	Environment   string `toml:"Environment"`
	DataDir       string `toml:"DataDir"`
	LogPath       string `toml:"LogPath"`
	AddressBook   string `toml:"AddressBook"`

	Auth      Auth                 `toml:"auth"`
	RateLimit map[string]RateLimit `toml:"ratelimit"`
	Telemetry Telemetry            `toml:"telemetry"`
}

// Auth configures bearer-token verification on the gateway.
type Auth struct {
	Enabled  bool   `toml:"Enabled"`
	Secret   string `toml:"Secret"`
	Issuer   string `toml:"Issuer"`
	Audience string `toml:"Audience"`
}

// RateLimit throttles one route group.
type RateLimit struct {
	RequestsPerMinute float64 `toml:"RequestsPerMinute"`
	Burst             int     `toml:"Burst"`
}

// Telemetry configures the OTLP exporters.
type Telemetry struct {
	Endpoint string `toml:"Endpoint"`
	Insecure bool   `toml:"Insecure"`
	Metrics  bool   `toml:"Metrics"`
	Traces   bool   `toml:"Traces"`
}

// Load reads the configuration at path, creating a default file when none
// exists. Unknown keys are rejected so a typo never silently disables a
// limit or an auth setting.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("config file %s has unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	if strings.TrimSpace(c.ListenAddress) == "" {
		c.ListenAddress = "127.0.0.1:8745"
	}
	if strings.TrimSpace(c.Environment) == "" {
		c.Environment = "devnet"
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./zupy-data"
	}
	if c.RateLimit == nil {
		c.RateLimit = map[string]RateLimit{}
	}
}

// Validate rejects configurations that would come up in an unsafe or
// unusable shape.
func (c *Config) Validate() error {
	if c.Auth.Enabled && strings.TrimSpace(c.Auth.Secret) == "" {
		return fmt.Errorf("config: auth enabled without a secret")
	}
	for route, limit := range c.RateLimit {
		if limit.RequestsPerMinute <= 0 {
			return fmt.Errorf("config: ratelimit %q: RequestsPerMinute must be positive", route)
		}
		if limit.Burst <= 0 {
			return fmt.Errorf("config: ratelimit %q: Burst must be positive", route)
		}
	}
	return nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	cfg.normalize()
	cfg.RateLimit = map[string]RateLimit{
		"build":    {RequestsPerMinute: 120, Burst: 20},
		"simulate": {RequestsPerMinute: 30, Burst: 5},
	}

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
	return cfg, nil
}
