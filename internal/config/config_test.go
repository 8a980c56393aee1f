package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/tokengate/internal/config"
	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

func TestLoadSave_RoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := config.Defaults()
	cfg.Ledger.RPC = "https://api.mainnet-beta.solana.com"
	cfg.Ledger.TokenMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	cfg.Ledger.RequiredBalance = 2500
	cfg.Auth.Transport = config.TransportHTTP
	cfg.Auth.URL = "https://world.example.com/auth"

	require.NoError(t, config.Save(cfg, path))

	loaded, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Version, loaded.Version)
	assert.Equal(t, cfg.Ledger, loaded.Ledger)
	assert.Equal(t, cfg.Auth.URL, loaded.Auth.URL)
	assert.Equal(t, config.TransportHTTP, loaded.Auth.Transport)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "~/.tokengate", cfg.Home)
	assert.Equal(t, "https://api.devnet.solana.com", cfg.Ledger.RPC)
	assert.Empty(t, cfg.Ledger.TokenMint)
	assert.InDelta(t, 10000, cfg.Ledger.RequiredBalance, 0)
	assert.Equal(t, 6, cfg.Ledger.TokenDecimals)
	assert.Equal(t, "confirmed", cfg.Ledger.Commitment)
	assert.Equal(t, config.ProviderKeypair, cfg.Wallet.Provider)
	assert.Equal(t, config.DefaultKeypairPath, cfg.Wallet.KeypairPath)
	assert.Equal(t, config.TransportNone, cfg.Auth.Transport)
	assert.Equal(t, "auto", cfg.Output.DefaultFormat)
	assert.Equal(t, "error", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()
	_, err := config.Load("/nonexistent/config.yaml")
	require.ErrorIs(t, err, gateerr.ErrConfigNotFound)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("invalid: yaml: content: ["), 0o600))

	_, err := config.Load(path)
	require.ErrorIs(t, err, gateerr.ErrConfigInvalid)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ledger:\n  token_mint: Mint111\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Mint111", cfg.Ledger.TokenMint)
	assert.Equal(t, config.DefaultRPCURL, cfg.Ledger.RPC)
	assert.Equal(t, config.DefaultTokenDecimals, cfg.Ledger.TokenDecimals)
}

func TestSave_CreatesDirectory(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "subdir", "config.yaml")

	require.NoError(t, config.Save(config.Defaults(), path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantKey string
	}{
		{"empty rpc", func(c *config.Config) { c.Ledger.RPC = " " }, "ledger.rpc"},
		{"negative threshold", func(c *config.Config) { c.Ledger.RequiredBalance = -1 }, "ledger.required_balance"},
		{"decimals too large", func(c *config.Config) { c.Ledger.TokenDecimals = 19 }, "ledger.token_decimals"},
		{"unknown provider", func(c *config.Config) { c.Wallet.Provider = "phantom" }, "wallet.provider"},
		{"keypair without path", func(c *config.Config) { c.Wallet.KeypairPath = "" }, "wallet.keypair_path"},
		{"static without address", func(c *config.Config) { c.Wallet.Provider = config.ProviderStatic }, "wallet.address"},
		{"http without url", func(c *config.Config) { c.Auth.Transport = config.TransportHTTP }, "auth.url"},
		{"redis without addr", func(c *config.Config) { c.Auth.Transport = config.TransportRedis }, "auth.redis_addr"},
		{"unknown transport", func(c *config.Config) { c.Auth.Transport = "carrier-pigeon" }, "auth.transport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Defaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, gateerr.ErrConfigInvalid)

			var ge *gateerr.GateError
			require.ErrorAs(t, err, &ge)
			assert.Contains(t, ge.Details, tt.wantKey)
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, filepath.Join("/home/test/.tokengate", "config.yaml"), config.Path("/home/test/.tokengate"))
}

func TestExpandPath(t *testing.T) {
	t.Parallel()
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := config.ExpandPath("~/.config/solana/id.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config/solana/id.json"), got)

	got, err = config.ExpandPath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}

func TestGetters(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	cfg.Ledger.TokenMint = "Mint111"

	assert.Equal(t, cfg.Home, cfg.GetHome())
	assert.Equal(t, config.DefaultRPCURL, cfg.GetLedgerRPC())
	assert.Equal(t, "Mint111", cfg.GetTokenMint())
	assert.Equal(t, "error", cfg.GetLoggingLevel())
	assert.Equal(t, "~/.tokengate/tokengate.log", cfg.GetLoggingFile())
	assert.Equal(t, "auto", cfg.GetOutputFormat())
	assert.False(t, cfg.IsVerbose())
}
