package cli

import (
	"bytes"
	"context"
	"math/big"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mrz1836/tokengate/internal/chain"
	"github.com/mrz1836/tokengate/internal/config"
)

const (
	testMint    = "So11111111111111111111111111111111111111112"
	testAddress = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
)

// cliResult captures one command run.
type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the root command with args in an isolated home directory.
// NOT parallel-safe: mutates package-level globals and the environment.
func runCLI(t *testing.T, home string, args ...string) cliResult {
	t.Helper()

	origStdout, origStderr := stdout, stderr
	t.Cleanup(func() {
		stdout, stderr = origStdout, origStderr
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var out, errOut bytes.Buffer
	stdout, stderr = &out, &errOut

	// Flags bound to globals keep their values between runs
	homeDir, outputFormat, verbose = "", "auto", false
	checkNotify, checkFailBelow, configForce, versionCheck = false, false, false, false

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--home", home}, args...))

	err := Execute()
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

// isolateEnv clears the environment variables the CLI reads and returns a
// fresh home directory.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	for _, key := range []string{
		config.EnvHome, config.EnvRPCURL, config.EnvTokenMint, config.EnvRequiredBalance,
		config.EnvTokenDecimals, config.EnvWalletAddress, config.EnvAuthURL,
		config.EnvAuthSecret, config.EnvRedisAddr, config.EnvOutputFormat, config.EnvVerbose,
	} {
		t.Setenv(key, "")
	}
	t.Setenv(config.EnvLogLevel, "off")
	// Keep wallet detection away from the real ~/.config/solana/id.json
	t.Setenv(config.EnvKeypair, filepath.Join(home, "missing-id.json"))
	return home
}

// fakeLedger serves fixed raw balances per owner.
type fakeLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	owners   []string
}

func (l *fakeLedger) TokenBalance(_ context.Context, owner, _ string) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.owners = append(l.owners, owner)
	raw, ok := l.balances[owner]
	if !ok {
		return nil, chain.ErrTokenAccountNotFound
	}
	return big.NewInt(raw), nil
}

// fakeProvider connects to a fixed address.
type fakeProvider struct {
	address      string
	disconnected int
}

func (p *fakeProvider) Connect(context.Context) (string, error) {
	return p.address, nil
}

func (p *fakeProvider) Disconnect(context.Context) error {
	p.disconnected++
	return nil
}

// withStack makes check and ui use ledger and provider instead of the
// network and wallet detection.
func withStack(t *testing.T, ledger chain.TokenBalanceReader, provider *fakeProvider) {
	t.Helper()
	orig := buildStack
	t.Cleanup(func() { buildStack = orig })

	buildStack = func(c *config.Config, log *config.Logger, opts stackOptions) (*stack, error) {
		opts.Ledger = ledger
		if provider != nil {
			opts.Provider = provider
		}
		return newStack(c, log, opts)
	}
}
