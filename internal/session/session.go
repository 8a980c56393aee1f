// Package session owns the wallet connection state and derives builder
// access from the connected address's token balance.
//
// A WalletSession is created once per application instance and shared by
// reference with the UI and the permission notifier. State is mutated only
// by the session's own operations; everyone else reads it through accessors
// or reacts to emitted events.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mrz1836/tokengate/internal/chain"
	"github.com/mrz1836/tokengate/internal/config"
	"github.com/mrz1836/tokengate/internal/metrics"
)

// Toast messages for connect failures.
const (
	ToastProviderUnavailable = "Solana wallet not found"
	ToastConnectRejected     = "Failed to connect wallet"
)

// Config is the immutable ledger configuration of a session.
type Config struct {
	RPCEndpoint     string  `json:"rpc_endpoint"`
	TokenMint       string  `json:"token_mint,omitempty"`
	RequiredBalance float64 `json:"required_balance"`
	TokenDecimals   int     `json:"token_decimals"`
}

// State is a snapshot of the session. Address is set iff Connected.
type State struct {
	Connected bool    `json:"connected"`
	Address   string  `json:"address,omitempty"`
	Balance   float64 `json:"balance"`
	HasAccess bool    `json:"has_access"`
}

// Provider is the wallet capability a session connects through.
// A nil Provider means no wallet is present.
type Provider interface {
	Connect(ctx context.Context) (string, error)
	Disconnect(ctx context.Context) error
}

// Toaster posts fire-and-forget user-visible messages.
type Toaster interface {
	Toast(message string)
}

// PermissionNotifier reacts to builder access transitions.
type PermissionNotifier interface {
	// Granted is called on the transition to access.
	Granted(ctx context.Context, address string, balance float64)

	// Insufficient is called when a refresh drops the balance below the threshold.
	Insufficient(ctx context.Context, balance, required float64)

	// Revoked is called on disconnect while access was granted, before the
	// state is reset.
	Revoked(ctx context.Context)
}

// LogWriter is the logging surface the session writes to.
type LogWriter interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}

// Options holds the collaborators of a session. Every field is optional.
type Options struct {
	Provider Provider
	Ledger   chain.TokenBalanceReader
	Notifier PermissionNotifier
	Toaster  Toaster
	Logger   LogWriter
	Metrics  *metrics.Metrics
}

// WalletSession mediates between the UI, the wallet provider and the
// ledger. It is safe for concurrent use.
type WalletSession struct {
	cfg      Config
	provider Provider
	ledger   chain.TokenBalanceReader
	notifier PermissionNotifier
	toaster  Toaster
	logger   LogWriter
	metrics  *metrics.Metrics

	// mu guards state, epoch, disconnecting and refreshEpoch. It is never
	// held across external calls.
	mu            sync.Mutex
	state         State
	epoch         uint64
	disconnecting bool

	// refreshEpoch is the epoch of the outstanding refresh, 0 when none.
	// A refresh left over from an older connection never blocks a new one.
	refreshEpoch uint64

	// transition orders state changes with the events and notifications
	// they produce.
	transition sync.Mutex

	connecting atomic.Bool

	subMu   sync.Mutex
	subs    map[uint64]Subscriber
	nextSub uint64
}

// New creates a disconnected session.
func New(cfg Config, opts Options) *WalletSession {
	s := &WalletSession{
		cfg:      cfg,
		provider: opts.Provider,
		ledger:   opts.Ledger,
		notifier: opts.Notifier,
		toaster:  opts.Toaster,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		subs:     make(map[uint64]Subscriber),
	}
	if s.logger == nil {
		s.logger = config.NullLogger()
	}
	if s.metrics == nil {
		s.metrics = metrics.Global
	}
	return s
}

// Config returns a copy of the session configuration.
func (s *WalletSession) Config() Config {
	return s.cfg
}

// RequiredBalance returns the access threshold.
func (s *WalletSession) RequiredBalance() float64 {
	return s.cfg.RequiredBalance
}

// State returns a snapshot of the session state.
func (s *WalletSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connected reports whether a wallet is connected.
func (s *WalletSession) Connected() bool {
	return s.State().Connected
}

// Address returns the connected address, or "" when disconnected.
func (s *WalletSession) Address() string {
	return s.State().Address
}

// Balance returns the last applied token balance.
func (s *WalletSession) Balance() float64 {
	return s.State().Balance
}

// HasAccess reports whether builder access is currently granted.
func (s *WalletSession) HasAccess() bool {
	return s.State().HasAccess
}

// Connecting reports whether a Connect call is outstanding.
func (s *WalletSession) Connecting() bool {
	return s.connecting.Load()
}

// Refreshing reports whether a RefreshBalance call is outstanding for the
// current connection.
func (s *WalletSession) Refreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshEpoch != 0 && s.refreshEpoch == s.epoch
}

// HasProvider reports whether a wallet provider is present.
func (s *WalletSession) HasProvider() bool {
	return s.provider != nil
}

func (s *WalletSession) toast(message string) {
	if s.toaster != nil {
		s.toaster.Toast(message)
	}
}
