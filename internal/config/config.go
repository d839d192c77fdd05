package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config models collectpoint.yml.
type Config struct {
	Operator struct {
		Name string `yaml:"name"`
	} `yaml:"operator"`
	Wallet struct {
		Currency string `yaml:"currency"`
	} `yaml:"wallet"`
	Server struct {
		BasePath string `yaml:"base_path"`
	} `yaml:"server"`
	Auth struct {
		AllowLegacyAccountHeader bool `yaml:"allow_legacy_account_header"`
	} `yaml:"auth"`
}

// Load reads and validates config from the workspace, falling back to
// defaults when the file does not exist.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	cur := c.Wallet.Currency
	if cur == "" {
		return fmt.Errorf("config.wallet.currency is required")
	}
	if len(cur) != 3 || cur != strings.ToUpper(cur) {
		return fmt.Errorf("config.wallet.currency must be a 3-letter uppercase code, got %q", cur)
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("config.server.base_path must start with /")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "collectpoint.yml")
}

// Default returns the default Config.
func Default() *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(defaultTemplate), &cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `operator:
  name: ""

wallet:
  currency: INR

server:
  base_path: /v1

auth:
  allow_legacy_account_header: false
`
