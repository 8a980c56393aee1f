package wallet

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"sync"

	sol "github.com/gagliardetto/solana-go"

	"github.com/mrz1836/tokengate/internal/config"
	"github.com/mrz1836/tokengate/internal/fileutil"
	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

const (
	// keypairSize is the length of a Solana CLI keypair: seed then public key.
	keypairSize = ed25519.PrivateKeySize

	// maxKeypairFileSize rejects anything far larger than a 64-number JSON array.
	maxKeypairFileSize = 4096
)

// Keypair reveals the public key of a Solana CLI keypair file
// (a JSON array of 64 byte values, as written by solana-keygen).
type Keypair struct {
	path string

	mu      sync.Mutex
	address string
}

// NewKeypair creates a provider for the keypair file at path.
func NewKeypair(path string) *Keypair {
	return &Keypair{path: path}
}

// Name returns the provider kind.
func (k *Keypair) Name() string {
	return config.ProviderKeypair
}

// Path returns the keypair file location.
func (k *Keypair) Path() string {
	return k.path
}

// Connect reads the keypair file and returns its base58 public key.
// The secret bytes are zeroed before returning.
func (k *Keypair) Connect(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := fileutil.ReadLimited(k.path, maxKeypairFileSize)
	if err != nil {
		return "", gateerr.WithDetails(gateerr.WithCause(gateerr.ErrInvalidKeypair, err),
			map[string]string{"path": k.path})
	}

	address, err := publicKeyFromKeypair(data)
	if err != nil {
		return "", gateerr.WithDetails(err, map[string]string{"path": k.path})
	}

	k.mu.Lock()
	k.address = address
	k.mu.Unlock()

	return address, nil
}

// Disconnect forgets the revealed address.
func (k *Keypair) Disconnect(_ context.Context) error {
	k.mu.Lock()
	k.address = ""
	k.mu.Unlock()
	return nil
}

// publicKeyFromKeypair decodes a JSON keypair and checks that its public
// half matches the seed.
func publicKeyFromKeypair(data []byte) (string, error) {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return "", gateerr.WithCause(gateerr.ErrInvalidKeypair, err)
	}
	if len(values) != keypairSize {
		return "", gateerr.WithCause(gateerr.ErrInvalidKeypair,
			fmt.Errorf("%w: got %d values, want %d", errKeypairLength, len(values), keypairSize))
	}

	raw := make([]byte, keypairSize)
	defer clear(raw)
	for i, v := range values {
		if v < 0 || v > 255 {
			return "", gateerr.WithCause(gateerr.ErrInvalidKeypair,
				fmt.Errorf("%w: index %d", errKeypairByte, i))
		}
		raw[i] = byte(v)
	}
	clear(values)

	derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	defer clear(derived)
	if !bytes.Equal(derived[ed25519.SeedSize:], raw[ed25519.SeedSize:]) {
		return "", gateerr.WithCause(gateerr.ErrInvalidKeypair, errKeypairMismatch)
	}

	return sol.PrivateKey(raw).PublicKey().String(), nil
}
