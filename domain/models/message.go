package models

import (
	"encoding/json"
	"fmt"

	"github.com/wzwerch/sovrin/domain"
)

// Envelope is the generic wire form of a protocol message. All values are
// plain JSON types (map, slice, string, float64) so that marshalling is
// canonical: encoding/json writes map keys in sorted order, which keeps
// signatures independent of field order on both ends.
type Envelope map[string]any

func (e Envelope) Type() string {
	return e.str(domain.FldType)
}

func (e Envelope) Identifier() string {
	return e.str(domain.FldIdentifier)
}

func (e Envelope) Sig() string {
	return e.str(domain.FldSig)
}

func (e Envelope) Nonce() string {
	return e.str(domain.FldNonce)
}

func (e Envelope) str(fld string) string {
	val, ok := e[fld]
	if !ok {
		return ``
	}

	s, ok := val.(string)
	if !ok {
		return ``
	}
	return s
}

// WithoutSig returns a shallow copy of the envelope with the signature
// field removed, since a signature is never part of its own signed content.
func (e Envelope) WithoutSig() Envelope {
	out := Envelope{}
	for k, v := range e {
		if k == domain.FldSig {
			continue
		}
		out[k] = v
	}
	return out
}

// Normalize converts any JSON-marshallable value into the canonical generic
// form. Payloads built from typed structs must pass through here before
// signing so that signer and verifier serialize identical bytes.
func Normalize(v any) (Envelope, error) {
	byts, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf(`marshalling message failed - %v`, err)
	}

	var env Envelope
	if err = json.Unmarshal(byts, &env); err != nil {
		return nil, fmt.Errorf(`unmarshalling message into generic form failed - %v`, err)
	}
	return env, nil
}

// Sender identifies the origin of an inbound message as seen by
// the transport layer.
type Sender struct {
	Name     string
	Endpoint string
}

// Inbound couples a decoded envelope with its resolved sender.
type Inbound struct {
	Body   Envelope
	Sender Sender
}
