package crypto

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/ed25519"
)

type keyPair struct {
	pub ed25519.PublicKey
	prv ed25519.PrivateKey
}

// KeyManager holds the ed25519 key pairs of the agent's local identities,
// keyed by identifier (the base58 cryptonym of the public key).
type KeyManager struct {
	keyStore *sync.Map
}

func NewKeyManager() *KeyManager {
	return &KeyManager{keyStore: &sync.Map{}}
}

// NewIdentity generates a key pair and returns the identifier derived
// from its public key.
func (k *KeyManager) NewIdentity() (id string, err error) {
	pub, prv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return ``, fmt.Errorf(`generating signing key pair failed - %v`, err)
	}

	id = base58.Encode(pub)
	k.keyStore.Store(id, keyPair{pub: pub, prv: prv})
	return id, nil
}

func (k *KeyManager) Sign(payload []byte, identifier string) ([]byte, error) {
	val, ok := k.keyStore.Load(identifier)
	if !ok {
		return nil, fmt.Errorf(`no signing key found for the identifier (%s)`, identifier)
	}

	kp := val.(keyPair)
	return ed25519.Sign(kp.prv, payload), nil
}

// Verify checks a detached signature against the hex-encoded verification
// key. Malformed keys or signatures verify as false, never as an error.
func Verify(payload, sig []byte, verkeyHex string) bool {
	key, err := decodeHex(verkeyHex)
	if err != nil || len(key) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(key, payload, sig)
}
