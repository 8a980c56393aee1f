package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Environment variable names.
const (
	EnvHome            = "TOKENGATE_HOME"
	EnvRPCURL          = "PUBLIC_RPC_URL"
	EnvTokenMint       = "PUBLIC_TOKEN_MINT"
	EnvRequiredBalance = "PUBLIC_REQUIRED_TOKEN_AMOUNT"
	EnvTokenDecimals   = "PUBLIC_TOKEN_DECIMALS"
	EnvKeypair         = "TOKENGATE_KEYPAIR"
	EnvWalletAddress   = "TOKENGATE_WALLET_ADDRESS"
	EnvAuthURL         = "TOKENGATE_AUTH_URL"
	EnvAuthSecret      = "TOKENGATE_AUTH_SECRET" // #nosec G101 -- false positive, this is a const name not a credential
	EnvRedisAddr       = "TOKENGATE_REDIS_ADDR"
	EnvOutputFormat    = "TOKENGATE_OUTPUT_FORMAT"
	EnvVerbose         = "TOKENGATE_VERBOSE"
	EnvLogLevel        = "TOKENGATE_LOG_LEVEL"
	EnvNoColor         = "NO_COLOR"
)

// envOverlay holds raw environment values. Everything is read as a string so
// that malformed numbers fall back to the configured value instead of failing.
type envOverlay struct {
	Home            string `env:"TOKENGATE_HOME"`
	RPCURL          string `env:"PUBLIC_RPC_URL"`
	TokenMint       string `env:"PUBLIC_TOKEN_MINT"`
	RequiredBalance string `env:"PUBLIC_REQUIRED_TOKEN_AMOUNT"`
	TokenDecimals   string `env:"PUBLIC_TOKEN_DECIMALS"`
	Keypair         string `env:"TOKENGATE_KEYPAIR"`
	WalletAddress   string `env:"TOKENGATE_WALLET_ADDRESS"`
	AuthURL         string `env:"TOKENGATE_AUTH_URL"`
	AuthSecret      string `env:"TOKENGATE_AUTH_SECRET"`
	RedisAddr       string `env:"TOKENGATE_REDIS_ADDR"`
	OutputFormat    string `env:"TOKENGATE_OUTPUT_FORMAT"`
	Verbose         string `env:"TOKENGATE_VERBOSE"`
	LogLevel        string `env:"TOKENGATE_LOG_LEVEL"`
}

// ApplyEnvironment applies environment variable overrides to the configuration.
//
//nolint:gocognit,gocyclo // Environment variable overrides require sequential checks
func ApplyEnvironment(cfg *Config) error {
	var o envOverlay
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.Home != "" {
		cfg.Home = o.Home
	}

	if v := strings.TrimSpace(o.RPCURL); v != "" {
		cfg.Ledger.RPC = v
	}

	if v := strings.TrimSpace(o.TokenMint); v != "" {
		cfg.Ledger.TokenMint = v
	}

	// Zero, negative and unparsable amounts keep the configured value.
	if n, ok := parsePositiveFloat(o.RequiredBalance); ok {
		cfg.Ledger.RequiredBalance = n
	}

	if n, ok := parsePositiveFloat(o.TokenDecimals); ok && n == float64(int(n)) {
		cfg.Ledger.TokenDecimals = int(n)
	}

	if o.Keypair != "" {
		cfg.Wallet.KeypairPath = o.Keypair
		cfg.Wallet.Provider = ProviderKeypair
	}

	if o.WalletAddress != "" {
		cfg.Wallet.Address = strings.TrimSpace(o.WalletAddress)
		cfg.Wallet.Provider = ProviderStatic
	}

	if o.AuthURL != "" {
		cfg.Auth.URL = strings.TrimSpace(o.AuthURL)
		if cfg.Auth.Transport == "" || cfg.Auth.Transport == TransportNone {
			cfg.Auth.Transport = TransportHTTP
		}
	}

	if o.AuthSecret != "" {
		cfg.Auth.Secret = o.AuthSecret
	}

	if o.RedisAddr != "" {
		cfg.Auth.RedisAddr = strings.TrimSpace(o.RedisAddr)
		if cfg.Auth.Transport == "" || cfg.Auth.Transport == TransportNone {
			cfg.Auth.Transport = TransportRedis
		}
	}

	if o.OutputFormat != "" {
		cfg.Output.DefaultFormat = strings.ToLower(o.OutputFormat)
	}

	if o.Verbose != "" {
		cfg.Output.Verbose = parseBool(o.Verbose)
	}

	if o.LogLevel != "" {
		cfg.Logging.Level = strings.ToLower(o.LogLevel)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}

	return nil
}

// parsePositiveFloat parses s and reports whether it is a number greater than zero.
func parsePositiveFloat(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return 0, false
	}
	return n, true
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
