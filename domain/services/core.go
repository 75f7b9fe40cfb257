package services

import (
	"github.com/wzwerch/sovrin/domain/messages"
	"github.com/wzwerch/sovrin/domain/models"
)

/* core services */

// Agent is the protocol surface exposed to the CLI and the driver loop.
type Agent interface {
	// Invite creates a pending link and returns its out-of-band
	// invitation URL
	Invite(label string) (url string, err error)
	// AcceptInvitation parses an invitation URL, stores the invitee-side
	// link and responds with a signed ACCEPT_INVITE message
	AcceptInvitation(url string) (inviter string, err error)
	// RequestClaim asks the peer of an accepted link to issue the named claim
	RequestClaim(peer, claimName string) error
	Links() ([]*models.Link, error)
	RegisterObserver(o Observer)
	DeregisterObserver(o Observer)
	// Prod performs at most limit units of pending work and returns the
	// number of actions taken
	Prod(limit int) int
	Start() error
	Stop() error
}

// Wallet supplies the agent's identities, signing and link/claim
// persistence. Consumed, never owned: handlers mutate links only through it.
type Wallet interface {
	DefaultID() string
	NewIdentity() (id string, err error)
	// SignMsg computes a signature over the canonical form of the envelope
	// using the key pair of the given identifier
	SignMsg(env models.Envelope, identifier string) (sig string, err error)
	SignOp(op messages.NymOperation, identifier string) (messages.SignedOperation, error)
	AddLinkInvitation(l *models.Link) error
	GetLinkByNonce(nonce string) (*models.Link, error)
	GetLinkInvitationByTarget(target string) (*models.Link, error)
	AddClaimDef(def models.ClaimDef) error
	GetClaimDef(key models.ClaimDefKey) (*models.ClaimDef, error)
	Links() ([]*models.Link, error)
}

// Ledger accepts signed operations and forwards them to the distributed
// ledger. Fire-and-forget: submission queues the operation and Service
// flushes at most limit of them per call.
type Ledger interface {
	Submit(op messages.SignedOperation)
	Service(limit int) int
	Start() error
	Stop() error
}

// ClaimCatalog supplies the claims this agent can issue.
type ClaimCatalog interface {
	AvailableClaims() []messages.AvailableClaim
	Claims() []messages.Claim
}

// OutOfBand encodes and decodes invitation URLs.
type OutOfBand interface {
	CreateInv(label, identifier, nonce string) (url string, err error)
	ParseInv(url string) (inv messages.Invitation, err error)
}

// Observer receives human-readable progress notifications. Registration is
// by identity, so implementations should use pointer receivers.
type Observer interface {
	OnNotification(text string)
}

/* extension points */

// ClaimDefResolver fetches a claim definition which did not arrive inline
// with an available-claims announcement. The default implementation returns
// domain.ErrUnsupportedOperation since the ledger fetch path is not part of
// this core.
type ClaimDefResolver interface {
	Resolve(key models.ClaimDefKey) (models.ClaimDef, error)
}

// IssuerKeyResolver resolves the key material of a claim issuer. The
// default implementation returns domain.ErrUnsupportedOperation.
type IssuerKeyResolver interface {
	Resolve(identifier string) (map[string]string, error)
}
