package messages

// NymOperation registers an identity record on the ledger.
type NymOperation struct {
	Target string `json:"target"`
	Type   string `json:"type"`
}

// SignedOperation is a ledger operation signed by the submitting identity.
// The gateway forwards it as-is; no synchronous confirmation is consumed.
type SignedOperation struct {
	Operation  NymOperation `json:"operation"`
	Identifier string       `json:"identifier"`
	Signature  string       `json:"signature"`
}
