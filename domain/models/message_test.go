package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wzwerch/sovrin/domain"
)

func TestEnvelopeAccessors(t *testing.T) {
	env := Envelope{
		domain.FldType:       `ACCEPT_INVITE`,
		domain.FldIdentifier: `id-1`,
		domain.FldSig:        `sig-1`,
		domain.FldNonce:      `nonce-1`,
	}

	require.Equal(t, `ACCEPT_INVITE`, env.Type())
	require.Equal(t, `id-1`, env.Identifier())
	require.Equal(t, `sig-1`, env.Sig())
	require.Equal(t, `nonce-1`, env.Nonce())

	// missing and non-string fields read as empty
	require.Empty(t, Envelope{}.Type())
	require.Empty(t, Envelope{domain.FldType: 42}.Type())
}

func TestWithoutSigStripsOnlySignature(t *testing.T) {
	env := Envelope{
		domain.FldType:  `CLAIMS`,
		domain.FldSig:   `sig`,
		domain.FldNonce: `n`,
	}

	stripped := env.WithoutSig()
	require.NotContains(t, stripped, domain.FldSig)
	require.Equal(t, `CLAIMS`, stripped.Type())
	require.Equal(t, `n`, stripped.Nonce())

	// the original is untouched
	require.Equal(t, `sig`, env.Sig())
}

func TestNormalizeCanonicalBytes(t *testing.T) {
	// two representations of the same message, with fields declared in
	// different orders, must serialize to identical bytes after normalizing
	type ordered struct {
		Nonce string `json:"nonce"`
		Type  string `json:"type"`
		Name  string `json:"claimName"`
	}
	type reversed struct {
		Name  string `json:"claimName"`
		Type  string `json:"type"`
		Nonce string `json:"nonce"`
	}

	a, err := Normalize(ordered{Nonce: `n`, Type: `REQUEST_CLAIMS`, Name: `Transcript`})
	require.NoError(t, err)
	b, err := Normalize(reversed{Name: `Transcript`, Type: `REQUEST_CLAIMS`, Nonce: `n`})
	require.NoError(t, err)

	bytsA, err := json.Marshal(a)
	require.NoError(t, err)
	bytsB, err := json.Marshal(b)
	require.NoError(t, err)
	require.Equal(t, bytsA, bytsB)
}

func TestNormalizeRejectsNonObject(t *testing.T) {
	_, err := Normalize([]string{`not`, `an`, `object`})
	require.Error(t, err)
}
