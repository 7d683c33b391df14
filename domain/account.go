package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedIdentifier is returned when a string does not parse as a
// ledger identifier.
var ErrMalformedIdentifier = errors.New("malformed identifier")

// AccountID is the opaque identifier of a ledger account.
// It is a distinct type from FaucetID so the two cannot be confused
// in call paths that take both.
type AccountID string

// FaucetID identifies an asset-issuing account on the ledger.
type FaucetID string

func (a AccountID) String() string { return string(a) }
func (f FaucetID) String() string  { return string(f) }

// ParseAccountID validates s as a ledger account identifier:
// a "0x" prefix followed by 1 to 64 alphanumeric characters.
func ParseAccountID(s string) (AccountID, error) {
	if err := checkID(s); err != nil {
		return "", err
	}
	return AccountID(s), nil
}

// ParseFaucetID validates s as a faucet identifier. Faucets share the
// account identifier format.
func ParseFaucetID(s string) (FaucetID, error) {
	if err := checkID(s); err != nil {
		return "", err
	}
	return FaucetID(s), nil
}

func checkID(s string) error {
	body, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return fmt.Errorf("%w: %q is missing the 0x prefix", ErrMalformedIdentifier, s)
	}
	if len(body) == 0 || len(body) > 64 {
		return fmt.Errorf("%w: %q has an out-of-range length", ErrMalformedIdentifier, s)
	}
	for _, r := range body {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return fmt.Errorf("%w: %q contains %q", ErrMalformedIdentifier, s, r)
		}
	}
	return nil
}
