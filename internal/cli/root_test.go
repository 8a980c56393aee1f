package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/tokengate/internal/config"
	"github.com/mrz1836/tokengate/internal/output"
	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

// errTestRandom is used for testing non-tokengate error handling.
var errTestRandom = gateerr.New("TEST_ERROR", "some random error")

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error returns success", err: nil, want: gateerr.ExitSuccess},
		{name: "general error", err: gateerr.ErrGeneral, want: gateerr.ExitGeneral},
		{name: "invalid input error", err: gateerr.ErrInvalidInput, want: gateerr.ExitInput},
		{name: "invalid address error", err: gateerr.ErrInvalidAddress, want: gateerr.ExitInput},
		{name: "provider unavailable", err: gateerr.ErrProviderUnavailable, want: gateerr.ExitWallet},
		{name: "connect rejected", err: gateerr.ErrConnectRejected, want: gateerr.ExitWallet},
		{name: "config not found error", err: gateerr.ErrConfigNotFound, want: gateerr.ExitNotFound},
		{name: "permission error", err: gateerr.ErrPermission, want: gateerr.ExitPermission},
		{name: "network error", err: gateerr.ErrNetworkError, want: gateerr.ExitGeneral},
		{name: "custom error returns general", err: errTestRandom, want: gateerr.ExitGeneral},
		{
			name: "wrapped error preserves exit code",
			err:  gateerr.Wrap(gateerr.ErrConnectRejected, "connecting"),
			want: gateerr.ExitWallet,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

// saveGlobals saves all package-level globals and returns a restore function.
func saveGlobals(t *testing.T) func() {
	t.Helper()
	origCfg, origLogger, origFormatter, origMessenger := cfg, logger, formatter, messenger
	origHomeDir, origOutputFormat, origVerbose := homeDir, outputFormat, verbose
	return func() {
		cfg, logger, formatter, messenger = origCfg, origLogger, origFormatter, origMessenger
		homeDir, outputFormat, verbose = origHomeDir, origOutputFormat, origVerbose
	}
}

func TestInitGlobals_DefaultConfig(t *testing.T) {
	defer saveGlobals(t)()
	home := isolateEnv(t)

	homeDir, outputFormat, verbose = home, "", false
	require.NoError(t, initGlobals())

	require.NotNil(t, cfg)
	require.NotNil(t, logger)
	require.NotNil(t, formatter)
	require.NotNil(t, messenger)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, config.DefaultRPCURL, cfg.Ledger.RPC)
	assert.InDelta(t, config.DefaultRequiredBalance, cfg.Ledger.RequiredBalance, 0)
}

func TestInitGlobals_ExistingConfig(t *testing.T) {
	defer saveGlobals(t)()
	home := isolateEnv(t)

	fileCfg := config.Defaults()
	fileCfg.Ledger.TokenMint = testMint
	fileCfg.Ledger.RequiredBalance = 500
	require.NoError(t, config.Save(fileCfg, config.Path(home)))

	homeDir, outputFormat, verbose = home, "", false
	require.NoError(t, initGlobals())

	assert.Equal(t, testMint, cfg.Ledger.TokenMint)
	assert.InDelta(t, 500.0, cfg.Ledger.RequiredBalance, 0)
}

func TestInitGlobals_EnvironmentOverridesFile(t *testing.T) {
	defer saveGlobals(t)()
	home := isolateEnv(t)

	fileCfg := config.Defaults()
	fileCfg.Ledger.RequiredBalance = 500
	require.NoError(t, config.Save(fileCfg, config.Path(home)))
	t.Setenv(config.EnvRequiredBalance, "2500")
	t.Setenv(config.EnvTokenMint, testMint)

	homeDir, outputFormat, verbose = home, "", false
	require.NoError(t, initGlobals())

	assert.InDelta(t, 2500.0, cfg.Ledger.RequiredBalance, 0)
	assert.Equal(t, testMint, cfg.Ledger.TokenMint)
}

func TestInitGlobals_InvalidConfigFile(t *testing.T) {
	defer saveGlobals(t)()
	home := isolateEnv(t)

	require.NoError(t, os.WriteFile(config.Path(home), []byte("ledger: [not, a, map"), 0o600))

	homeDir, outputFormat, verbose = home, "", false
	err := initGlobals()
	require.Error(t, err)
	require.ErrorIs(t, err, gateerr.ErrConfigInvalid)
}

func TestInitGlobals_Flags(t *testing.T) {
	defer saveGlobals(t)()
	home := isolateEnv(t)
	t.Setenv(config.EnvHome, t.TempDir())

	homeDir, outputFormat = home, "json"
	require.NoError(t, initGlobals())

	assert.Equal(t, home, cfg.Home, "--home wins over TOKENGATE_HOME")
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.Equal(t, output.FormatJSON, formatter.Format())
}

func TestCleanup(t *testing.T) {
	origLogger := logger
	defer func() { logger = origLogger }()

	logger = nil
	assert.NotPanics(t, cleanup)

	logger = config.NullLogger()
	assert.NotPanics(t, cleanup)
}

func TestGlobalGetters(t *testing.T) {
	defer saveGlobals(t)()

	testCfg := config.Defaults()
	testLogger := config.NullLogger()
	testFmt := output.NewFormatter(output.FormatText, nil)
	cfg, logger, formatter = testCfg, testLogger, testFmt

	assert.Equal(t, testCfg, Config())
	assert.Equal(t, testLogger, Logger())
	assert.Equal(t, testFmt, Formatter())
}

func TestExecute_ErrorIsPrinted(t *testing.T) {
	defer saveGlobals(t)()
	home := isolateEnv(t)

	res := runCLI(t, home, "-o", "text", "config", "get", "nope.nope")
	require.ErrorIs(t, res.err, gateerr.ErrUnknownConfigKey)
	assert.Equal(t, gateerr.ExitInput, ExitCode(res.err))
	assert.Contains(t, res.stderr, "unknown config key")
}

func TestEnrichParentLong(t *testing.T) {
	defer saveGlobals(t)()
	home := isolateEnv(t)

	// Execute enriches help once
	runCLI(t, home, "config", "path")

	assert.Contains(t, configCmd.Long, "Subcommands:")
	assert.Contains(t, configCmd.Long, "init")
	assert.NotContains(t, rootCmd.Long, "Subcommands:")
}
