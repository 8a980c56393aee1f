package solana

import (
	"strings"

	sol "github.com/gagliardetto/solana-go"

	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

// ParseAddress decodes a base58 account address.
func ParseAddress(address string) (sol.PublicKey, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return sol.PublicKey{}, gateerr.WithDetails(gateerr.ErrInvalidAddress, map[string]string{
			"reason": "empty address",
		})
	}

	key, err := sol.PublicKeyFromBase58(address)
	if err != nil {
		return sol.PublicKey{}, gateerr.WithDetails(
			gateerr.WithCause(gateerr.ErrInvalidAddress, err),
			map[string]string{"address": address},
		)
	}
	return key, nil
}

// IsValidAddress reports whether address decodes to a 32-byte public key.
func IsValidAddress(address string) bool {
	_, err := ParseAddress(address)
	return err == nil
}

// AssociatedTokenAccount derives the associated token account that holds
// mint tokens for owner.
func AssociatedTokenAccount(owner, mint string) (sol.PublicKey, error) {
	ownerKey, err := ParseAddress(owner)
	if err != nil {
		return sol.PublicKey{}, err
	}
	mintKey, err := ParseAddress(mint)
	if err != nil {
		return sol.PublicKey{}, err
	}

	ata, _, err := sol.FindAssociatedTokenAddress(ownerKey, mintKey)
	if err != nil {
		return sol.PublicKey{}, gateerr.WithCause(gateerr.ErrInvalidAddress, err)
	}
	return ata, nil
}

// ShortAddress abbreviates an address for display, e.g. "AbCd...WxYz".
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:4] + "..." + address[len(address)-4:]
}
