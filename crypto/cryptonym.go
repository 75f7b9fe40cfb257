package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

// Identifiers travel in two textual encodings: the raw verification key in
// hex, and the cryptonym, a base58 rendering of the same bytes. Both ends of
// the protocol fix the same transforms so that a key comparison is exact.

func IsHex(s string) bool {
	if len(s) == 0 || len(s)%2 != 0 {
		return false
	}

	_, err := hex.DecodeString(s)
	return err == nil
}

// Cryptonym converts a hex-encoded key to its cryptonym; an identifier
// already in cryptonym form passes through unchanged.
func Cryptonym(identifier string) string {
	if !IsHex(identifier) {
		return identifier
	}

	raw, _ := hex.DecodeString(identifier)
	return base58.Encode(raw)
}

// CryptonymToHex derives the hex verification key from a cryptonym.
func CryptonymToHex(cryptonym string) (string, error) {
	raw := base58.Decode(cryptonym)
	if len(raw) == 0 {
		return ``, fmt.Errorf(`identifier is not a valid cryptonym (%s)`, cryptonym)
	}
	return hex.EncodeToString(raw), nil
}

// Verkey resolves the verification key of a declared identifier: a hex
// identifier is the key itself, anything else is treated as a cryptonym.
func Verkey(identifier string) (string, error) {
	if IsHex(identifier) {
		return identifier, nil
	}
	return CryptonymToHex(identifier)
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}
