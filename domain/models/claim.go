package models

import (
	"encoding/json"
	"time"
)

// ClaimDefKey identifies an immutable ledger-anchored claim definition.
// A (name, version) pair is unique in a well-formed system; the sequence
// number ties the key to the anchoring transaction.
type ClaimDefKey struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	SeqNo   int    `json:"claimDefSeqNo"`
}

// AvailableClaimData references an issuable claim which has not been
// fetched yet.
type AvailableClaimData struct {
	ClaimDefKey ClaimDefKey `json:"claimDefKey"`
}

// ClaimDef couples a claim definition key with its schema blob. Immutable
// once stored.
type ClaimDef struct {
	Key        ClaimDefKey     `json:"key"`
	Definition json.RawMessage `json:"definition"`
}

// ReceivedClaim is an instance of issued claim data, created only upon
// verified receipt from an issuer and immutable thereafter.
type ReceivedClaim struct {
	Key         ClaimDefKey       `json:"key"`
	IssuerKeys  map[string]string `json:"issuerKeys"`
	Values      map[string]any    `json:"values"`
	DateOfIssue time.Time         `json:"dateOfIssue"`
}

func (r ReceivedClaim) clone() ReceivedClaim {
	out := r
	out.IssuerKeys = make(map[string]string, len(r.IssuerKeys))
	for k, v := range r.IssuerKeys {
		out.IssuerKeys[k] = v
	}
	out.Values = make(map[string]any, len(r.Values))
	for k, v := range r.Values {
		out.Values[k] = v
	}
	return out
}
