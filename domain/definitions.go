package domain

import "errors"

/* protocol message types */

const (
	MsgTypAcceptInvite   = `ACCEPT_INVITE`
	MsgTypAvailClaimList = `AVAIL_CLAIM_LIST`
	MsgTypRequestClaims  = `REQUEST_CLAIMS`
	MsgTypClaims         = `CLAIMS`
	MsgTypError          = `ERROR`
)

/* envelope field names */

const (
	FldType       = `type`
	FldIdentifier = `identifier`
	FldSig        = `sig`
	FldNonce      = `nonce`
	FldClaimName  = `claimName`
	FldClaimsList = `availableClaimsList`
	FldClaims     = `claims`
	FldData       = `data`
	FldReqMsg     = `reqMsg`
)

// fixed strings sent to peers on recoverable failures; no internal
// detail ever travels over the wire
const (
	RespSigRejected     = `Signature Rejected`
	RespNoLinkFound     = `No Such Link found`
	RespUnsupportedType = `Unsupported message type`
	RespGenericError    = `Error`
)

// TxnTypNym registers an identity record on the ledger
const TxnTypNym = `NYM`

type Status int

const (
	StatusStopped Status = iota
	StatusStarting
	StatusStarted
)

func (s Status) String() string {
	switch s {
	case StatusStarting:
		return `starting`
	case StatusStarted:
		return `started`
	default:
		return `stopped`
	}
}

var (
	ErrRemoteNotFound       = errors.New(`destination is unknown to the transport`)
	ErrLinkNotFound         = errors.New(`no link found`)
	ErrClaimDefNotFound     = errors.New(`no claim definition found`)
	ErrUnsupportedOperation = errors.New(`operation is not supported by this agent`)
	ErrUnknownMsgType       = errors.New(`no handler defined for the message type`)
)
