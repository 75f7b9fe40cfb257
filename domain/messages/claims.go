package messages

import "encoding/json"

// AvailableClaim is a single entry of an AVAIL_CLAIM_LIST payload. The
// definition is optional; when absent the receiver must resolve it through
// its claim-definition resolver.
type AvailableClaim struct {
	Name          string          `json:"name"`
	Version       string          `json:"version"`
	ClaimDefSeqNo int             `json:"claimDefSeqNo"`
	Definition    json.RawMessage `json:"definition,omitempty"`
}

// Claim is a single entry of a CLAIMS payload carrying issued values.
type Claim struct {
	Name          string         `json:"name"`
	Version       string         `json:"version"`
	ClaimDefSeqNo int            `json:"claimDefSeqNo"`
	Values        map[string]any `json:"values"`
}
