package invitation

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wzwerch/sovrin/domain/messages"
)

func TestCreateParseRoundTrip(t *testing.T) {
	o := NewOOBService(`http://127.0.0.1:8080/agent`)
	url, err := o.CreateInv(`faber`, `identifier-1`, `nonce-1`)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, `http://127.0.0.1:8080/agent?inv=`))

	inv, err := o.ParseInv(url)
	require.NoError(t, err)
	require.Equal(t, `faber`, inv.Label)
	require.Equal(t, `identifier-1`, inv.Identifier)
	require.Equal(t, `nonce-1`, inv.Nonce)
	require.Equal(t, `http://127.0.0.1:8080/agent`, inv.Endpoint)
	require.NotEmpty(t, inv.Id)
}

func TestParseRawEncoding(t *testing.T) {
	o := NewOOBService(`http://127.0.0.1:8080/agent`)
	inv := messages.Invitation{Id: `id`, Label: `faber`, Identifier: `identifier-1`,
		Nonce: `nonce-1`, Endpoint: `http://127.0.0.1:8080/agent`}
	byts, err := json.Marshal(inv)
	require.NoError(t, err)

	// the encoded payload alone, without the URL around it, parses too
	got, err := o.ParseInv(base64.URLEncoding.EncodeToString(byts))
	require.NoError(t, err)
	require.Equal(t, inv, got)
}

func TestParseRejectsIncompleteInvitation(t *testing.T) {
	o := NewOOBService(`http://127.0.0.1:8080/agent`)

	// each is missing one of the mandatory fields
	cases := []messages.Invitation{
		{Label: `faber`, Identifier: `id`, Endpoint: `ep`},
		{Label: `faber`, Nonce: `n`, Endpoint: `ep`},
		{Label: `faber`, Identifier: `id`, Nonce: `n`},
	}

	for _, inv := range cases {
		byts, err := json.Marshal(inv)
		require.NoError(t, err)
		_, err = o.ParseInv(base64.URLEncoding.EncodeToString(byts))
		require.Error(t, err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	o := NewOOBService(`http://127.0.0.1:8080/agent`)
	_, err := o.ParseInv(`%%%not-base64%%%`)
	require.Error(t, err)

	_, err = o.ParseInv(base64.URLEncoding.EncodeToString([]byte(`not json`)))
	require.Error(t, err)
}
