package cli

import (
	"github.com/mrz1836/tokengate/internal/config"
)

// Compile-time interface checks.
var (
	_ ConfigProvider = (*config.Config)(nil)
	_ LogWriter      = (*config.Logger)(nil)
)

// ConfigProvider provides read access to configuration values.
// This interface enables mocking configuration in tests.
type ConfigProvider interface {
	// GetHome returns the tokengate home directory path.
	GetHome() string

	// GetLedgerRPC returns the Solana RPC URL.
	GetLedgerRPC() string

	// GetTokenMint returns the gating token mint, or "" when unset.
	GetTokenMint() string

	// GetRequiredBalance returns the gating threshold in whole tokens.
	GetRequiredBalance() float64

	// GetTokenDecimals returns the decimal precision of the gating token.
	GetTokenDecimals() int

	// GetLoggingLevel returns the configured logging level.
	GetLoggingLevel() string

	// GetLoggingFile returns the configured log file path.
	GetLoggingFile() string

	// GetOutputFormat returns the default output format.
	GetOutputFormat() string

	// IsVerbose returns true if verbose output is enabled.
	IsVerbose() bool
}

// LogWriter provides logging capabilities.
type LogWriter interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}
