package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMergeAvailableClaimsDedups(t *testing.T) {
	l := &Link{Nonce: `n`}
	key := ClaimDefKey{Name: `Transcript`, Version: `1.2`, SeqNo: 12}

	l.MergeAvailableClaims([]AvailableClaimData{{ClaimDefKey: key}})
	require.Len(t, l.AvailableClaims, 1)

	// replaying the same announcement leaves the link unchanged
	l.MergeAvailableClaims([]AvailableClaimData{{ClaimDefKey: key}})
	require.Len(t, l.AvailableClaims, 1)

	other := ClaimDefKey{Name: `Job-Certificate`, Version: `0.1`, SeqNo: 22}
	l.MergeAvailableClaims([]AvailableClaimData{{ClaimDefKey: key}, {ClaimDefKey: other}})
	require.Len(t, l.AvailableClaims, 2)
}

func TestAppendReceivedClaims(t *testing.T) {
	l := &Link{Nonce: `n`}
	rc := ReceivedClaim{
		Key:         ClaimDefKey{Name: `Transcript`, Version: `1.2`, SeqNo: 12},
		Values:      map[string]any{`degree`: `Bachelor of Science`},
		DateOfIssue: time.Now(),
	}

	l.AppendReceivedClaims([]ReceivedClaim{rc})
	l.AppendReceivedClaims([]ReceivedClaim{rc})
	require.Len(t, l.ReceivedClaims, 2)
}

func TestCloneIsIndependent(t *testing.T) {
	key := ClaimDefKey{Name: `Transcript`, Version: `1.2`, SeqNo: 12}
	l := &Link{
		Nonce:           `n`,
		Status:          LinkStatusPending,
		AvailableClaims: []AvailableClaimData{{ClaimDefKey: key}},
		ReceivedClaims: []ReceivedClaim{{
			Key:        key,
			IssuerKeys: map[string]string{`master`: `key`},
			Values:     map[string]any{`gpa`: `4.0`},
		}},
	}

	c := l.Clone()
	c.Status = LinkStatusAccepted
	c.AvailableClaims[0].ClaimDefKey.Name = `mutated`
	c.ReceivedClaims[0].Values[`gpa`] = `0.0`
	c.ReceivedClaims[0].IssuerKeys[`master`] = `mutated`

	require.Equal(t, LinkStatusPending, l.Status)
	require.Equal(t, `Transcript`, l.AvailableClaims[0].ClaimDefKey.Name)
	require.Equal(t, `4.0`, l.ReceivedClaims[0].Values[`gpa`])
	require.Equal(t, `key`, l.ReceivedClaims[0].IssuerKeys[`master`])
}

func TestLinkStatusString(t *testing.T) {
	require.Equal(t, `pending`, LinkStatusPending.String())
	require.Equal(t, `accepted`, LinkStatusAccepted.String())
	require.Equal(t, `established`, LinkStatusEstablished.String())
}
