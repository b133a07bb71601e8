package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Length is the number of decimal digits in a generated passcode.
const Length = 6

var ceiling = big.NewInt(1_000_000)

// New generates a cryptographically strong 6-digit passcode, zero-padded.
func New() (string, error) {
	n, err := rand.Int(rand.Reader, ceiling)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
