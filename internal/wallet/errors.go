package wallet

import "errors"

var (
	errKeypairLength   = errors.New("unexpected keypair length")
	errKeypairByte     = errors.New("keypair value out of byte range")
	errKeypairMismatch = errors.New("public key does not match seed")
)
