// Package chain provides ledger interface definitions and common utilities.
package chain

import (
	"context"
	"math/big"

	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

// ID represents a supported ledger.
type ID string

// Supported ledger identifiers.
const (
	Solana ID = "solana"
)

// String returns the ledger identifier string.
func (id ID) String() string {
	return string(id)
}

// IsValid returns true if the ledger ID is known.
func (id ID) IsValid() bool {
	return id == Solana
}

// ErrTokenAccountNotFound indicates the owner holds no token account for the mint.
// Callers treat it as a zero balance rather than a failure.
var ErrTokenAccountNotFound = &gateerr.GateError{
	Code:     "TOKEN_ACCOUNT_NOT_FOUND",
	Message:  "token account not found",
	ExitCode: gateerr.ExitNotFound,
}

// Identifier provides ledger identification.
type Identifier interface {
	// ID returns the ledger identifier.
	ID() ID
}

// AddressValidator provides address validation.
type AddressValidator interface {
	// ValidateAddress checks if an address is valid for this ledger.
	ValidateAddress(address string) error
}

// TokenBalanceReader queries fungible token balances.
type TokenBalanceReader interface {
	// TokenBalance returns the raw token amount (smallest unit) that owner
	// holds of mint. It returns ErrTokenAccountNotFound when owner has no
	// token account for mint.
	TokenBalance(ctx context.Context, owner, mint string) (*big.Int, error)
}

// Reader combines read-only ledger operations.
type Reader interface {
	Identifier
	AddressValidator
	TokenBalanceReader
}
