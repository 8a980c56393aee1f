package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/tokengate/internal/chain"
	"github.com/mrz1836/tokengate/internal/chain/solana"
	"github.com/mrz1836/tokengate/internal/config"
	"github.com/mrz1836/tokengate/internal/notify"
	"github.com/mrz1836/tokengate/internal/session"
	"github.com/mrz1836/tokengate/internal/wallet"
)

// buildStack wires the session for check and ui. Replaced in tests.
var buildStack = newStack

// stack is everything one session needs, plus the resources to release.
type stack struct {
	session *session.WalletSession
	closers []func() error
}

// Close releases the authorization channel.
func (s *stack) Close() {
	for _, closeFn := range s.closers {
		_ = closeFn()
	}
}

// stackOptions selects the optional parts of a session.
type stackOptions struct {
	// Toaster receives user-visible messages. Nil drops them.
	Toaster session.Toaster

	// Notify wires the authorization channel. Without it access changes
	// are evaluated but never sent.
	Notify bool

	// Provider replaces wallet detection.
	Provider session.Provider

	// Ledger replaces the Solana RPC client.
	Ledger chain.TokenBalanceReader
}

// sessionConfig projects the immutable session configuration.
func sessionConfig(c ConfigProvider) session.Config {
	return session.Config{
		RPCEndpoint:     c.GetLedgerRPC(),
		TokenMint:       c.GetTokenMint(),
		RequiredBalance: c.GetRequiredBalance(),
		TokenDecimals:   c.GetTokenDecimals(),
	}
}

// seconds converts a configured timeout, with zero meaning fallback.
func seconds(n int, fallback time.Duration) time.Duration {
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

// newLedger creates the rate-limited Solana RPC client.
func newLedger(c *config.Config) (*solana.Client, error) {
	return solana.NewClient(c.Ledger.RPC, &solana.ClientOptions{
		Commitment:  c.Ledger.Commitment,
		Timeout:     seconds(c.Ledger.TimeoutSeconds, 0),
		RateLimiter: chain.NewRateLimiter(c.Ledger.RequestsPerSecond, c.Ledger.Burst),
	})
}

// newChannel creates the authorization channel for the configured transport.
// The returned function releases it.
func newChannel(a config.AuthConfig, log LogWriter) (notify.Channel, func() error, error) {
	noClose := func() error { return nil }
	timeout := seconds(a.TimeoutSeconds, 0)

	switch a.Transport {
	case config.TransportHTTP:
		ch, err := notify.NewHTTPChannel(a.URL, &notify.HTTPOptions{Secret: a.Secret, Timeout: timeout})
		if err != nil {
			return nil, noClose, err
		}
		log.Debug("auth: http transport url=%s signed=%t", ch.URL(), a.Secret != "")
		return ch, noClose, nil
	case config.TransportRedis:
		ch, err := notify.NewRedisChannel(a.RedisAddr, a.RedisChannel, timeout)
		if err != nil {
			return nil, noClose, err
		}
		log.Debug("auth: redis transport addr=%s channel=%s", a.RedisAddr, ch.Channel())
		return ch, ch.Close, nil
	default:
		log.Debug("auth: no transport, access changes are not sent")
		return notify.NopChannel{}, noClose, nil
	}
}

// newStack wires a session from the configuration.
func newStack(c *config.Config, log *config.Logger, opts stackOptions) (*stack, error) {
	st := &stack{}

	ledger := opts.Ledger
	if ledger == nil {
		client, err := newLedger(c)
		if err != nil {
			return nil, err
		}
		ledger = client
	}

	provider := opts.Provider
	if provider == nil {
		// A nil wallet.Provider converts to a nil session.Provider
		provider = wallet.Detect(c.Wallet)
	}

	var notifier session.PermissionNotifier
	if opts.Notify {
		channel, closeFn, err := newChannel(c.Auth, log.Named("auth"))
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, closeFn)
		notifier = notify.NewNotifier(channel, opts.Toaster, log.Named("notify"), nil)
	}

	st.session = session.New(sessionConfig(c), session.Options{
		Provider: provider,
		Ledger:   ledger,
		Notifier: notifier,
		Toaster:  opts.Toaster,
		Logger:   log.Named("session"),
	})
	return st, nil
}

// contextWithTimeout returns a timeout context rooted in the command context.
func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	return context.WithTimeout(base, d)
}

// sendsAccessChanges reports whether a transport other than none is configured.
func sendsAccessChanges(a config.AuthConfig) bool {
	return a.Transport != "" && a.Transport != config.TransportNone
}
