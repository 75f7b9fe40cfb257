package models

// TargetVerkeySameAsID marks a link whose verification key is derived
// from the target identifier itself, with no separately published key.
const TargetVerkeySameAsID = `~`

type LinkStatus int

const (
	LinkStatusPending LinkStatus = iota
	LinkStatusAccepted
	LinkStatusEstablished
)

func (s LinkStatus) String() string {
	switch s {
	case LinkStatusAccepted:
		return `accepted`
	case LinkStatusEstablished:
		return `established`
	default:
		return `pending`
	}
}

// Link tracks a trust relationship between the local and a remote identity,
// progressing from invitation to acceptance. The nonce is issued once at
// invitation creation and is immutable thereafter; it correlates an inbound
// response to the link that originated it.
type Link struct {
	Name             string               `json:"name"`
	Nonce            string               `json:"nonce"`
	LocalIdentifier  string               `json:"localIdentifier"`
	RemoteIdentifier string               `json:"remoteIdentifier"`
	TargetIdentifier string               `json:"targetIdentifier"`
	RemoteEndpoint   string               `json:"remoteEndpoint"`
	Status           LinkStatus           `json:"status"`
	TargetVerkey     string               `json:"targetVerkey"`
	AvailableClaims  []AvailableClaimData `json:"availableClaims"`
	ReceivedClaims   []ReceivedClaim      `json:"receivedClaims"`
}

// MergeAvailableClaims attaches newly announced claims to the link while
// keeping the sequence free of duplicates, so replaying an already processed
// response leaves the link unchanged.
func (l *Link) MergeAvailableClaims(claims []AvailableClaimData) {
	known := map[ClaimDefKey]bool{}
	for _, ac := range l.AvailableClaims {
		known[ac.ClaimDefKey] = true
	}

	for _, ac := range claims {
		if known[ac.ClaimDefKey] {
			continue
		}
		known[ac.ClaimDefKey] = true
		l.AvailableClaims = append(l.AvailableClaims, ac)
	}
}

// AppendReceivedClaims adds claim instances to the append-only received
// sequence.
func (l *Link) AppendReceivedClaims(claims []ReceivedClaim) {
	l.ReceivedClaims = append(l.ReceivedClaims, claims...)
}

// Clone returns a deep copy so that store implementations hand out
// independent instances, matching the behavior of serializing backends.
func (l *Link) Clone() *Link {
	out := *l
	out.AvailableClaims = append([]AvailableClaimData(nil), l.AvailableClaims...)
	out.ReceivedClaims = make([]ReceivedClaim, len(l.ReceivedClaims))
	for i, rc := range l.ReceivedClaims {
		out.ReceivedClaims[i] = rc.clone()
	}
	return &out
}
