package wallet

import (
	"context"

	"github.com/mrz1836/tokengate/internal/chain/solana"
	"github.com/mrz1836/tokengate/internal/config"
)

// Static is a watch-only provider for a fixed address.
type Static struct {
	address string
}

// NewStatic creates a watch-only provider for address.
func NewStatic(address string) *Static {
	return &Static{address: address}
}

// Name returns the provider kind.
func (s *Static) Name() string {
	return config.ProviderStatic
}

// Connect validates and returns the configured address.
func (s *Static) Connect(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := solana.ParseAddress(s.address)
	if err != nil {
		return "", err
	}
	return key.String(), nil
}

// Disconnect is a no-op.
func (s *Static) Disconnect(_ context.Context) error {
	return nil
}
