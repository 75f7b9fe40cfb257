package crypto

import (
	"testing"

	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	km := NewKeyManager()
	id, err := km.NewIdentity()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	payload := []byte(`{"nonce":"abc","type":"ACCEPT_INVITE"}`)
	sig, err := km.Sign(payload, id)
	require.NoError(t, err)

	verkey, err := Verkey(id)
	require.NoError(t, err)
	require.True(t, Verify(payload, sig, verkey))
}

func TestVerifyRejectsMutation(t *testing.T) {
	km := NewKeyManager()
	id, err := km.NewIdentity()
	require.NoError(t, err)

	payload := []byte(`{"nonce":"abc"}`)
	sig, err := km.Sign(payload, id)
	require.NoError(t, err)

	verkey, err := Verkey(id)
	require.NoError(t, err)

	tampered := []byte(`{"nonce":"abd"}`)
	require.False(t, Verify(tampered, sig, verkey))

	badSig := append([]byte(nil), sig...)
	badSig[0] ^= 0xff
	require.False(t, Verify(payload, badSig, verkey))
}

func TestVerifyMalformedInputs(t *testing.T) {
	km := NewKeyManager()
	id, err := km.NewIdentity()
	require.NoError(t, err)

	payload := []byte(`data`)
	sig, err := km.Sign(payload, id)
	require.NoError(t, err)

	verkey, err := Verkey(id)
	require.NoError(t, err)

	require.False(t, Verify(payload, sig, `not-hex`))
	require.False(t, Verify(payload, sig, `abcd`))
	require.False(t, Verify(payload, sig[:10], verkey))
	require.False(t, Verify(payload, nil, verkey))
}

func TestSignUnknownIdentifier(t *testing.T) {
	km := NewKeyManager()
	_, err := km.Sign([]byte(`data`), `missing`)
	require.Error(t, err)
}

func TestIdentitiesAreDistinct(t *testing.T) {
	km := NewKeyManager()
	a, err := km.NewIdentity()
	require.NoError(t, err)
	b, err := km.NewIdentity()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestCryptonymTransforms(t *testing.T) {
	km := NewKeyManager()
	id, err := km.NewIdentity()
	require.NoError(t, err)

	// the identifier is already a cryptonym and must pass through unchanged
	require.Equal(t, id, Cryptonym(id))

	hexKey, err := CryptonymToHex(id)
	require.NoError(t, err)
	require.True(t, IsHex(hexKey))

	// converting the hex key back yields the original cryptonym
	require.Equal(t, id, Cryptonym(hexKey))

	// both encodings resolve to the same verification key
	vk, err := Verkey(id)
	require.NoError(t, err)
	require.Equal(t, hexKey, vk)

	vk, err = Verkey(hexKey)
	require.NoError(t, err)
	require.Equal(t, hexKey, vk)
}

func TestCryptonymToHexInvalid(t *testing.T) {
	_, err := CryptonymToHex(`0OIl`) // not in the base58 alphabet
	require.Error(t, err)
}

func TestIsHex(t *testing.T) {
	require.True(t, IsHex(`deadbeef`))
	require.False(t, IsHex(``))
	require.False(t, IsHex(`abc`))
	require.False(t, IsHex(`zz`))
}

func TestVerifyAcceptsBase58SigDecode(t *testing.T) {
	km := NewKeyManager()
	id, err := km.NewIdentity()
	require.NoError(t, err)

	payload := []byte(`payload`)
	sig, err := km.Sign(payload, id)
	require.NoError(t, err)

	// the wire carries signatures base58-encoded; the decode must be lossless
	decoded := base58.Decode(base58.Encode(sig))
	verkey, err := Verkey(id)
	require.NoError(t, err)
	require.True(t, Verify(payload, decoded, verkey))
}
