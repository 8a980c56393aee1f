// Package solana provides the Solana ledger client used for SPL token
// balance lookups.
package solana

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/mrz1836/tokengate/internal/chain"
	"github.com/mrz1836/tokengate/internal/metrics"
	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

const (
	// defaultTimeout bounds a single RPC request.
	defaultTimeout = 15 * time.Second

	// invalidParamsCode is the JSON-RPC code the node returns when the
	// queried token account does not exist.
	invalidParamsCode = -32602

	methodTokenAccountBalance = "getTokenAccountBalance"
)

// ErrRPCURLRequired indicates the RPC URL was not provided.
var ErrRPCURLRequired = &gateerr.GateError{
	Code:     "SOLANA_RPC_URL_REQUIRED",
	Message:  "RPC URL is required",
	ExitCode: gateerr.ExitInput,
}

// RPC is the subset of the Solana JSON-RPC API the client uses.
// *rpc.Client satisfies it.
type RPC interface {
	GetTokenAccountBalance(ctx context.Context, account sol.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error)
}

// ClientOptions contains optional configuration for the Solana client.
type ClientOptions struct {
	// Commitment overrides the default "confirmed" commitment level.
	Commitment string

	// Timeout bounds each RPC request. Zero uses the default.
	Timeout time.Duration

	// RateLimiter throttles RPC requests. Nil disables throttling.
	RateLimiter *chain.RateLimiter

	// Metrics receives RPC call counters. Nil uses metrics.Global.
	Metrics *metrics.Metrics

	// RPC replaces the JSON-RPC transport. Used by tests.
	RPC RPC
}

// Compile-time interface checks
var _ chain.Reader = (*Client)(nil)

// Client reads SPL token balances from a Solana RPC endpoint.
type Client struct {
	rpcURL     string
	rpc        RPC
	commitment rpc.CommitmentType
	timeout    time.Duration
	limiter    *chain.RateLimiter
	metrics    *metrics.Metrics
}

// NewClient creates a new Solana client for rpcURL.
func NewClient(rpcURL string, opts *ClientOptions) (*Client, error) {
	rpcURL = strings.TrimSpace(rpcURL)
	if rpcURL == "" {
		return nil, ErrRPCURLRequired
	}

	c := &Client{
		rpcURL:     rpcURL,
		commitment: rpc.CommitmentConfirmed,
		timeout:    defaultTimeout,
		metrics:    metrics.Global,
	}

	if opts != nil {
		c.applyOptions(opts)
	}

	if c.rpc == nil {
		c.rpc = rpc.New(rpcURL)
	}

	return c, nil
}

func (c *Client) applyOptions(opts *ClientOptions) {
	if opts.Commitment != "" {
		c.commitment = rpc.CommitmentType(opts.Commitment)
	}
	if opts.Timeout > 0 {
		c.timeout = opts.Timeout
	}
	if opts.RateLimiter != nil {
		c.limiter = opts.RateLimiter
	}
	if opts.Metrics != nil {
		c.metrics = opts.Metrics
	}
	if opts.RPC != nil {
		c.rpc = opts.RPC
	}
}

// ID returns the ledger identifier.
func (c *Client) ID() chain.ID {
	return chain.Solana
}

// RPCURL returns the endpoint the client queries.
func (c *Client) RPCURL() string {
	return c.rpcURL
}

// ValidateAddress checks that address is a base58 public key.
func (c *Client) ValidateAddress(address string) error {
	_, err := ParseAddress(address)
	return err
}

// TokenBalance returns the raw amount of mint held by owner's associated
// token account. A missing account maps to chain.ErrTokenAccountNotFound.
func (c *Client) TokenBalance(ctx context.Context, owner, mint string) (*big.Int, error) {
	ata, err := AssociatedTokenAccount(owner, mint)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err = c.limiter.Wait(ctx, methodTokenAccountBalance); err != nil {
			return nil, gateerr.WithCause(gateerr.ErrNetworkError, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result, err := c.rpc.GetTokenAccountBalance(ctx, ata, c.commitment)
	c.metrics.RecordRPCCall(time.Since(start), err)

	if err != nil {
		if isAccountNotFound(err) {
			return nil, chain.ErrTokenAccountNotFound
		}
		return nil, gateerr.WithDetails(
			gateerr.WithCause(gateerr.ErrBalanceQueryFailed, err),
			map[string]string{"account": ata.String()},
		)
	}

	if result == nil || result.Value == nil {
		return nil, chain.ErrTokenAccountNotFound
	}

	amount, ok := new(big.Int).SetString(result.Value.Amount, 10)
	if !ok {
		return nil, gateerr.WithCause(gateerr.ErrBalanceQueryFailed,
			fmt.Errorf("%w: %q", errMalformedAmount, result.Value.Amount))
	}
	return amount, nil
}

var errMalformedAmount = errors.New("malformed token amount")

// isAccountNotFound reports whether err is the node's answer for a token
// account that was never created.
func isAccountNotFound(err error) bool {
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		if rpcErr.Code == invalidParamsCode {
			return true
		}
		return strings.Contains(strings.ToLower(rpcErr.Message), "could not find account")
	}
	return strings.Contains(strings.ToLower(err.Error()), "could not find account")
}
