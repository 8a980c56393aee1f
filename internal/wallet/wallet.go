// Package wallet provides the wallet providers a session connects through.
// A provider reveals a public address on Connect; nothing is ever signed.
package wallet

import (
	"context"
	"os"

	"github.com/mrz1836/tokengate/internal/config"
)

// Provider is a connectable wallet.
type Provider interface {
	// Name identifies the provider kind, e.g. "keypair".
	Name() string

	// Connect opens the wallet and returns its public address.
	Connect(ctx context.Context) (string, error)

	// Disconnect releases the wallet. It is safe to call when not connected.
	Disconnect(ctx context.Context) error
}

// Detect returns the provider described by cfg, or nil when no wallet is
// present in the environment: provider "none", an unset provider, or a
// keypair file that does not exist.
func Detect(cfg config.WalletConfig) Provider {
	switch cfg.Provider {
	case config.ProviderKeypair:
		path, err := config.ExpandPath(cfg.KeypairPath)
		if err != nil || path == "" {
			return nil
		}
		if _, err = os.Stat(path); err != nil {
			return nil
		}
		return NewKeypair(path)
	case config.ProviderStatic:
		if cfg.Address == "" {
			return nil
		}
		return NewStatic(cfg.Address)
	default:
		return nil
	}
}
