package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcutil/base58"
	"github.com/wzwerch/sovrin/crypto"
	"github.com/wzwerch/sovrin/domain"
	"github.com/wzwerch/sovrin/domain/messages"
	"github.com/wzwerch/sovrin/domain/models"
)

/* verification gate */

// isVerified checks the envelope signature over its canonical serialization
// with the signature field stripped. The verification key is the declared
// identifier itself when already hex-encoded, otherwise it is derived from
// the cryptonym. Failure notifies observers and returns false; it never
// raises.
func (a *Agent) isVerified(body models.Envelope) bool {
	verkey, err := crypto.Verkey(body.Identifier())
	if err != nil {
		a.notifyObservers(`Signature rejected`)
		return false
	}

	byts, err := json.Marshal(body.WithoutSig())
	if err != nil {
		a.log.Error(fmt.Sprintf(`marshalling message for verification failed - %v`, err))
		a.notifyObservers(`Signature rejected`)
		return false
	}

	if !crypto.Verify(byts, base58.Decode(body.Sig()), verkey) {
		a.notifyObservers(`Signature rejected`)
		return false
	}
	return true
}

// verifyAndGetLink is the single verification gate for every handler that
// must trust an inbound message: signature first, then the link matching
// the nonce. Either failure sends a signed ERROR reply and yields nil. On
// success the remote identifier and endpoint are recorded on the link;
// they are trustworthy only after the signature check has passed.
func (a *Agent) verifyAndGetLink(in models.Inbound) *models.Link {
	body := in.Body
	verified := a.isVerified(body)

	link, err := a.wallet.GetLinkByNonce(body.Nonce())
	if err != nil && !errors.Is(err, domain.ErrLinkNotFound) {
		a.log.Error(fmt.Sprintf(`looking up link by nonce failed - %v`, err))
	}

	if !verified {
		a.logAndSendErrorResp(in.Sender, body, domain.RespSigRejected,
			fmt.Sprintf(`signature verification failed for msg: %v`, body))
		return nil
	}

	if link == nil {
		a.logAndSendErrorResp(in.Sender, body, domain.RespNoLinkFound,
			fmt.Sprintf(`link not found for msg: %v`, body))
		return nil
	}

	link.RemoteIdentifier = body.Identifier()
	link.RemoteEndpoint = in.Sender.Endpoint
	if err = a.wallet.AddLinkInvitation(link); err != nil {
		a.log.Error(fmt.Sprintf(`persisting link failed - %v`, err))
	}
	return link
}

/* reply construction */

func errorResponse(reqBody models.Envelope, errorMsg string) models.Envelope {
	return models.Envelope{
		domain.FldType:   domain.MsgTypError,
		domain.FldData:   errorMsg,
		domain.FldReqMsg: map[string]any(reqBody),
	}
}

func availClaimListMsg(claims []messages.AvailableClaim) (models.Envelope, error) {
	return models.Normalize(map[string]any{
		domain.FldType:       domain.MsgTypAvailClaimList,
		domain.FldClaimsList: claims,
	})
}

func claimsMsg(claims []messages.Claim) (models.Envelope, error) {
	return models.Normalize(map[string]any{
		domain.FldType:   domain.MsgTypClaims,
		domain.FldClaims: claims,
	})
}

func (a *Agent) logAndSendErrorResp(to models.Sender, reqBody models.Envelope, respMsg, logMsg string) {
	a.log.Warn(logMsg)
	a.signAndSendToCaller(errorResponse(reqBody, respMsg), a.wallet.DefaultID(), to)
}

// signAndSendToCaller stamps the local default identity as the sender,
// signs with the specified identifier (which may be a link-local one) and
// transmits. The signature is computed before it is attached, so it never
// covers itself.
func (a *Agent) signAndSendToCaller(resp models.Envelope, identifier string, to models.Sender) {
	resp[domain.FldIdentifier] = a.wallet.DefaultID()
	sig, err := a.wallet.SignMsg(resp, identifier)
	if err != nil {
		a.log.Error(fmt.Sprintf(`signing reply failed - %v`, err))
		return
	}
	resp[domain.FldSig] = sig
	a.sendMessage(resp, to)
}

/* protocol handlers */

// acceptInvite serves an ACCEPT_INVITE message: registers the remote
// identity on the ledger with a NYM operation and answers with the full
// catalog of claims this agent can issue.
func (a *Agent) acceptInvite(in models.Inbound) error {
	link := a.verifyAndGetLink(in)
	if link == nil {
		// resolution failure already produced the error reply; a second
		// error path here would double the delivery
		return nil
	}

	op := messages.NymOperation{Target: in.Body.Identifier(), Type: domain.TxnTypNym}
	signed, err := a.wallet.SignOp(op, a.wallet.DefaultID())
	if err != nil {
		return fmt.Errorf(`signing nym operation failed - %v`, err)
	}
	a.ledger.Submit(signed)

	resp, err := availClaimListMsg(a.catalog.AvailableClaims())
	if err != nil {
		return fmt.Errorf(`building available-claims reply failed - %v`, err)
	}

	a.signAndSendToCaller(resp, link.LocalIdentifier, in.Sender)
	return nil
}

// handleAcceptInviteResponse consumes the AVAIL_CLAIM_LIST reply on the
// initiator side: matches the link by the sender's cryptonym, stores inline
// claim definitions, and transitions the link to accepted exactly once.
func (a *Agent) handleAcceptInviteResponse(in models.Inbound) error {
	body := in.Body
	if !a.isVerified(body) {
		return nil
	}

	identifier := body.Identifier()
	li, err := a.wallet.GetLinkInvitationByTarget(crypto.Cryptonym(identifier))
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			a.notifyObservers(`No matching link found`)
			return nil
		}
		return fmt.Errorf(`looking up link by target failed - %v`, err)
	}

	a.notifyObservers(fmt.Sprintf(`Response from %s:`, li.Name))
	a.notifyObservers(`    Signature accepted.`)
	a.notifyObservers(`    Trust established.`)
	a.notifyObservers(`    Identifier created on the ledger.`)

	entries, err := availableClaimsOf(body)
	if err != nil {
		return err
	}

	var availableClaims []models.AvailableClaimData
	for _, cl := range entries {
		key := models.ClaimDefKey{Name: cl.Name, Version: cl.Version, SeqNo: cl.ClaimDefSeqNo}
		availableClaims = append(availableClaims, models.AvailableClaimData{ClaimDefKey: key})

		if len(cl.Definition) > 0 {
			if err = a.wallet.AddClaimDef(models.ClaimDef{Key: key, Definition: cl.Definition}); err != nil {
				return fmt.Errorf(`storing claim definition failed - %v`, err)
			}
			continue
		}

		def, err := a.claimDefs.Resolve(key)
		if errors.Is(err, domain.ErrUnsupportedOperation) {
			a.log.Warn(fmt.Sprintf(`no inline definition for claim %s and fetching from the ledger is not supported`, cl.Name))
			a.notifyObservers(fmt.Sprintf(`    Definition of claim %s is not available.`, cl.Name))
			continue
		}
		if err != nil {
			return fmt.Errorf(`resolving claim definition failed - %v`, err)
		}

		if err = a.wallet.AddClaimDef(def); err != nil {
			return fmt.Errorf(`storing resolved claim definition failed - %v`, err)
		}
	}

	if li.Status == models.LinkStatusPending {
		li.Status = models.LinkStatusAccepted
	}
	li.TargetVerkey = models.TargetVerkeySameAsID
	li.MergeAvailableClaims(availableClaims)

	if err = a.wallet.AddLinkInvitation(li); err != nil {
		return fmt.Errorf(`persisting accepted link failed - %v`, err)
	}

	if len(availableClaims) > 0 {
		var names []string
		for _, cl := range availableClaims {
			names = append(names, cl.ClaimDefKey.Name)
		}
		a.notifyObservers(`    Available claims: ` + strings.Join(names, `,`))
		a.syncLinkPostAvailableClaimsRcvd(li)
	}
	return nil
}

// handleReqClaimResponse consumes a CLAIMS reply: each claim is matched to
// its owning link individually, so a missing link surfaces per claim
// instead of only when the list is empty.
func (a *Agent) handleReqClaimResponse(in models.Inbound) error {
	body := in.Body
	if !a.isVerified(body) {
		return nil
	}

	a.notifyObservers(`Signature accepted.`)
	identifier := body.Identifier()

	claims, err := claimsOf(body)
	if err != nil {
		return err
	}

	for _, claim := range claims {
		a.notifyObservers(fmt.Sprintf(`Received %s.`, claim.Name))
		li, err := a.wallet.GetLinkInvitationByTarget(crypto.Cryptonym(identifier))
		if err != nil {
			if errors.Is(err, domain.ErrLinkNotFound) {
				a.notifyObservers(`No matching link found`)
				continue
			}
			return fmt.Errorf(`looking up link by target failed - %v`, err)
		}

		issuerKeys, err := a.issuerKys.Resolve(identifier)
		if errors.Is(err, domain.ErrUnsupportedOperation) {
			a.log.Warn(fmt.Sprintf(`issuer key resolution is not supported; storing claim %s without issuer keys`, claim.Name))
			issuerKeys = map[string]string{}
		} else if err != nil {
			return fmt.Errorf(`resolving issuer keys failed - %v`, err)
		}

		rc := models.ReceivedClaim{
			Key:         models.ClaimDefKey{Name: claim.Name, Version: claim.Version, SeqNo: claim.ClaimDefSeqNo},
			IssuerKeys:  issuerKeys,
			Values:      claim.Values,
			DateOfIssue: time.Now(),
		}

		li.AppendReceivedClaims([]models.ReceivedClaim{rc})
		if err = a.wallet.AddLinkInvitation(li); err != nil {
			return fmt.Errorf(`persisting link with received claim failed - %v`, err)
		}
	}
	return nil
}

// reqClaim serves a REQUEST_CLAIMS message: filters the local catalog by
// the requested name and replies with the matches. An empty result is a
// valid CLAIMS reply, not an error.
func (a *Agent) reqClaim(in models.Inbound) error {
	link := a.verifyAndGetLink(in)
	if link == nil {
		return nil
	}

	claimName, _ := in.Body[domain.FldClaimName].(string)
	claimsToSend := []messages.Claim{}
	for _, cl := range a.catalog.Claims() {
		if cl.Name == claimName {
			claimsToSend = append(claimsToSend, cl)
		}
	}

	resp, err := claimsMsg(claimsToSend)
	if err != nil {
		return fmt.Errorf(`building claims reply failed - %v`, err)
	}

	a.signAndSendToCaller(resp, link.LocalIdentifier, in.Sender)
	return nil
}

// handleError surfaces a peer-reported failure to the observers. Errors are
// informational; no verification is performed.
func (a *Agent) handleError(in models.Inbound) error {
	body := in.Body
	a.notifyObservers(fmt.Sprintf(`Error (%v) occurred while processing this msg: %v`,
		body[domain.FldData], body[domain.FldReqMsg]))
	return nil
}

// syncLinkPostAvailableClaimsRcvd kicks the post-acceptance check that the
// link identifier reached the ledger. The deferred confirmation round trip
// is not wired in this core; the check is notification-only.
func (a *Agent) syncLinkPostAvailableClaimsRcvd(li *models.Link) {
	a.notifyObservers(`Synchronizing...`)
}

/* payload decoding */

func availableClaimsOf(body models.Envelope) (entries []messages.AvailableClaim, err error) {
	if err = decodePayload(body[domain.FldClaimsList], &entries); err != nil {
		return nil, fmt.Errorf(`decoding available-claims payload failed - %v`, err)
	}
	return entries, nil
}

func claimsOf(body models.Envelope) (claims []messages.Claim, err error) {
	if err = decodePayload(body[domain.FldClaims], &claims); err != nil {
		return nil, fmt.Errorf(`decoding claims payload failed - %v`, err)
	}
	return claims, nil
}

func decodePayload(field any, out any) error {
	if field == nil {
		return fmt.Errorf(`payload field is missing`)
	}

	byts, err := json.Marshal(field)
	if err != nil {
		return err
	}
	return json.Unmarshal(byts, out)
}
