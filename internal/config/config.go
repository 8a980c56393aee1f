// Package config provides configuration management for tokengate.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/tokengate/internal/fileutil"
	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

// Wallet provider kinds.
const (
	ProviderNone    = "none"
	ProviderKeypair = "keypair"
	ProviderStatic  = "static"
)

// Authorization channel transports.
const (
	TransportNone  = "none"
	TransportHTTP  = "http"
	TransportRedis = "redis"
)

// maxTokenDecimals bounds decimal scaling to what a float64 balance can represent.
const maxTokenDecimals = 18

// Config represents the application configuration.
type Config struct {
	Version int           `yaml:"version"`
	Home    string        `yaml:"home"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Wallet  WalletConfig  `yaml:"wallet"`
	Auth    AuthConfig    `yaml:"auth"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// LedgerConfig defines the Solana RPC endpoint and the gating token.
type LedgerConfig struct {
	RPC               string  `yaml:"rpc"`
	Commitment        string  `yaml:"commitment"`
	TokenMint         string  `yaml:"token_mint"`
	RequiredBalance   float64 `yaml:"required_balance"`
	TokenDecimals     int     `yaml:"token_decimals"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
}

// WalletConfig selects the wallet provider.
type WalletConfig struct {
	Provider    string `yaml:"provider"`
	KeypairPath string `yaml:"keypair_path"`
	Address     string `yaml:"address"`
}

// AuthConfig defines how permission changes reach the authorization service.
type AuthConfig struct {
	Transport      string `yaml:"transport"`
	URL            string `yaml:"url"`
	Secret         string `yaml:"secret,omitempty"`
	RedisAddr      string `yaml:"redis_addr"`
	RedisChannel   string `yaml:"redis_channel"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gateerr.WithDetails(gateerr.ErrConfigNotFound, map[string]string{"path": path})
		}
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, gateerr.WithCause(gateerr.ErrConfigInvalid, err)
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	invalid := func(key, reason string) error {
		return gateerr.WithDetails(gateerr.ErrConfigInvalid, map[string]string{key: reason})
	}

	if strings.TrimSpace(c.Ledger.RPC) == "" {
		return invalid("ledger.rpc", "required")
	}
	if c.Ledger.RequiredBalance < 0 {
		return invalid("ledger.required_balance", "must not be negative")
	}
	if c.Ledger.TokenDecimals < 0 || c.Ledger.TokenDecimals > maxTokenDecimals {
		return invalid("ledger.token_decimals", fmt.Sprintf("must be between 0 and %d", maxTokenDecimals))
	}

	switch c.Wallet.Provider {
	case "", ProviderNone:
	case ProviderKeypair:
		if c.Wallet.KeypairPath == "" {
			return invalid("wallet.keypair_path", "required for keypair provider")
		}
	case ProviderStatic:
		if c.Wallet.Address == "" {
			return invalid("wallet.address", "required for static provider")
		}
	default:
		return invalid("wallet.provider", "must be one of none, keypair, static")
	}

	switch c.Auth.Transport {
	case "", TransportNone:
	case TransportHTTP:
		if c.Auth.URL == "" {
			return invalid("auth.url", "required for http transport")
		}
	case TransportRedis:
		if c.Auth.RedisAddr == "" {
			return invalid("auth.redis_addr", "required for redis transport")
		}
	default:
		return invalid("auth.transport", "must be one of none, http, redis")
	}

	return nil
}

// GetHome returns the tokengate home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetLedgerRPC returns the Solana RPC URL.
func (c *Config) GetLedgerRPC() string {
	return c.Ledger.RPC
}

// GetTokenMint returns the gating token mint address, or "" when unset.
func (c *Config) GetTokenMint() string {
	return c.Ledger.TokenMint
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default tokengate home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tokengate"
	}
	return filepath.Join(home, ".tokengate")
}

// ExpandPath replaces a leading "~/" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}

// GetRequiredBalance returns the gating threshold in whole tokens.
func (c *Config) GetRequiredBalance() float64 {
	return c.Ledger.RequiredBalance
}

// GetTokenDecimals returns the decimal precision of the gating token.
func (c *Config) GetTokenDecimals() int {
	return c.Ledger.TokenDecimals
}
