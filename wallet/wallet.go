package wallet

import (
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/wzwerch/sovrin/crypto"
	"github.com/wzwerch/sovrin/domain/messages"
	"github.com/wzwerch/sovrin/domain/models"
	"github.com/wzwerch/sovrin/domain/services"
)

// Wallet owns the agent's identities and persists its links and claim
// definitions through a pluggable store backend.
type Wallet struct {
	defaultID string
	km        *crypto.KeyManager
	store     services.Store
}

func New(km *crypto.KeyManager, store services.Store) (*Wallet, error) {
	id, err := km.NewIdentity()
	if err != nil {
		return nil, fmt.Errorf(`creating default identity failed - %v`, err)
	}

	return &Wallet{defaultID: id, km: km, store: store}, nil
}

func (w *Wallet) DefaultID() string {
	return w.defaultID
}

func (w *Wallet) NewIdentity() (string, error) {
	return w.km.NewIdentity()
}

// SignMsg signs the canonical serialization of the envelope, with the
// signature field stripped first so it never covers itself.
func (w *Wallet) SignMsg(env models.Envelope, identifier string) (string, error) {
	byts, err := json.Marshal(env.WithoutSig())
	if err != nil {
		return ``, fmt.Errorf(`marshalling message for signing failed - %v`, err)
	}

	sig, err := w.km.Sign(byts, identifier)
	if err != nil {
		return ``, fmt.Errorf(`signing message failed - %v`, err)
	}

	return base58.Encode(sig), nil
}

func (w *Wallet) SignOp(op messages.NymOperation, identifier string) (messages.SignedOperation, error) {
	env, err := models.Normalize(op)
	if err != nil {
		return messages.SignedOperation{}, fmt.Errorf(`normalizing ledger operation failed - %v`, err)
	}

	byts, err := json.Marshal(env)
	if err != nil {
		return messages.SignedOperation{}, fmt.Errorf(`marshalling ledger operation failed - %v`, err)
	}

	sig, err := w.km.Sign(byts, identifier)
	if err != nil {
		return messages.SignedOperation{}, fmt.Errorf(`signing ledger operation failed - %v`, err)
	}

	return messages.SignedOperation{Operation: op, Identifier: identifier, Signature: base58.Encode(sig)}, nil
}

func (w *Wallet) AddLinkInvitation(l *models.Link) error {
	return w.store.SaveLink(l)
}

func (w *Wallet) GetLinkByNonce(nonce string) (*models.Link, error) {
	return w.store.LinkByNonce(nonce)
}

func (w *Wallet) GetLinkInvitationByTarget(target string) (*models.Link, error) {
	return w.store.LinkByTarget(target)
}

func (w *Wallet) AddClaimDef(def models.ClaimDef) error {
	return w.store.SaveClaimDef(def)
}

func (w *Wallet) GetClaimDef(key models.ClaimDefKey) (*models.ClaimDef, error) {
	return w.store.ClaimDef(key)
}

func (w *Wallet) Links() ([]*models.Link, error) {
	return w.store.Links()
}
