package agent

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tryfix/log"
	"github.com/wzwerch/sovrin/crypto"
	"github.com/wzwerch/sovrin/domain"
	"github.com/wzwerch/sovrin/domain/container"
	"github.com/wzwerch/sovrin/domain/models"
	"github.com/wzwerch/sovrin/domain/services"
)

// Agent processes the claim-exchange protocol for a single identity owner.
// All mutable state is touched only on the message-handling path, which is
// driven by Prod: one message is fully processed before the next begins.
type Agent struct {
	label     string
	wallet    services.Wallet
	ledger    services.Ledger
	tr        services.Transporter
	catalog   services.ClaimCatalog
	oob       services.OutOfBand
	claimDefs services.ClaimDefResolver
	issuerKys services.IssuerKeyResolver
	handlers  map[string]func(in models.Inbound) error
	hub       *observerHub
	mu        sync.Mutex
	status    domain.Status
	log       log.Logger
}

func New(c *container.Container) (*Agent, error) {
	if c.Wallet == nil || c.Transport == nil || c.Ledger == nil || c.Catalog == nil || c.OOB == nil {
		return nil, fmt.Errorf(`container is missing a wallet, transport, ledger gateway, claim catalog or oob service`)
	}

	a := &Agent{
		label:     c.Cfg.Label,
		wallet:    c.Wallet,
		ledger:    c.Ledger,
		tr:        c.Transport,
		catalog:   c.Catalog,
		oob:       c.OOB,
		claimDefs: c.ClaimDefs,
		issuerKys: c.IssuerKys,
		hub:       newObserverHub(),
		log:       c.Log,
	}

	if a.claimDefs == nil {
		a.claimDefs = unsupportedClaimDefResolver{}
	}
	if a.issuerKys == nil {
		a.issuerKys = unsupportedIssuerKeyResolver{}
	}

	a.handlers = map[string]func(in models.Inbound) error{
		domain.MsgTypError:          a.handleError,
		domain.MsgTypAvailClaimList: a.handleAcceptInviteResponse,
		domain.MsgTypClaims:         a.handleReqClaimResponse,
		domain.MsgTypAcceptInvite:   a.acceptInvite,
		domain.MsgTypRequestClaims:  a.reqClaim,
	}

	a.tr.SetHandler(a.inbound)
	return a, nil
}

func (a *Agent) inbound(data []byte, sender models.Sender) {
	var env models.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		a.log.Error(fmt.Sprintf(`unmarshalling inbound message from %s failed - %v`, sender.Name, err))
		return
	}

	if err := a.Handle(env, sender); err != nil {
		a.log.Error(fmt.Sprintf(`processing '%s' message from %s failed - %v`, env.Type(), sender.Name, err))
	}
}

// Handle routes an inbound envelope to the handler registered for its type.
// An unknown type is recoverable: the peer gets a signed ERROR reply and
// the condition surfaces as a processing failure here instead of aborting
// the agent. Handler failures propagate to the caller untouched.
func (a *Agent) Handle(body models.Envelope, sender models.Sender) error {
	handler, ok := a.handlers[body.Type()]
	if !ok {
		a.notifyObservers(fmt.Sprintf(`Unsupported message type (%s) received`, body.Type()))
		a.logAndSendErrorResp(sender, body, domain.RespUnsupportedType,
			fmt.Sprintf(`no handler found for type '%s' from %s`, body.Type(), sender.Name))
		return fmt.Errorf(`%w (%s)`, domain.ErrUnknownMsgType, body.Type())
	}

	// the registry knows the sender once the endpoint saw its first
	// message; fall back to the address the transport reported
	ha, err := a.tr.Resolve(sender.Name)
	if err != nil {
		a.log.Warn(fmt.Sprintf(`do not know %s, using reported address (%s)`, sender.Name, sender.Endpoint))
		ha = sender.Endpoint
	}

	return handler(models.Inbound{Body: body, Sender: models.Sender{Name: sender.Name, Endpoint: ha}})
}

// sendMessage transmits an envelope by destination name, falling back to
// the explicit address. An unresolvable destination is a logged fault and
// the message is dropped, never a crash.
func (a *Agent) sendMessage(env models.Envelope, to models.Sender) {
	byts, err := json.Marshal(env)
	if err != nil {
		a.log.Error(fmt.Sprintf(`marshalling outbound message failed - %v`, err))
		return
	}

	ha, err := a.tr.Resolve(to.Name)
	if err != nil {
		if to.Endpoint == `` {
			a.log.Error(fmt.Sprintf(`do not know %s, message dropped`, to.Name))
			return
		}
		ha = to.Endpoint
	}

	if err = a.tr.Send(byts, ha); err != nil {
		a.log.Error(fmt.Sprintf(`sending message to %s failed - %v`, to.Name, err))
	}
}

/* invitation flow */

// Invite creates a pending link with a fresh single-use nonce and returns
// the out-of-band URL the peer accepts with.
func (a *Agent) Invite(label string) (string, error) {
	link := &models.Link{
		Name:            label,
		Nonce:           uuid.New().String(),
		LocalIdentifier: a.wallet.DefaultID(),
		Status:          models.LinkStatusPending,
	}

	if err := a.wallet.AddLinkInvitation(link); err != nil {
		return ``, fmt.Errorf(`storing link invitation failed - %v`, err)
	}

	url, err := a.oob.CreateInv(a.label, a.wallet.DefaultID(), link.Nonce)
	if err != nil {
		return ``, fmt.Errorf(`creating invitation failed - %v`, err)
	}
	return url, nil
}

// AcceptInvitation stores the invitee-side link for the invitation and
// replies with a signed ACCEPT_INVITE message.
func (a *Agent) AcceptInvitation(url string) (string, error) {
	inv, err := a.oob.ParseInv(url)
	if err != nil {
		return ``, fmt.Errorf(`parsing invitation failed - %v`, err)
	}

	localID, err := a.wallet.NewIdentity()
	if err != nil {
		return ``, fmt.Errorf(`creating pairwise identity failed - %v`, err)
	}

	link := &models.Link{
		Name:             inv.Label,
		Nonce:            inv.Nonce,
		LocalIdentifier:  localID,
		TargetIdentifier: crypto.Cryptonym(inv.Identifier),
		RemoteEndpoint:   inv.Endpoint,
		Status:           models.LinkStatusPending,
	}

	if err = a.wallet.AddLinkInvitation(link); err != nil {
		return ``, fmt.Errorf(`storing link invitation failed - %v`, err)
	}

	a.tr.Register(inv.Label, inv.Endpoint)

	env := models.Envelope{
		domain.FldType:       domain.MsgTypAcceptInvite,
		domain.FldIdentifier: localID,
		domain.FldNonce:      inv.Nonce,
	}

	sig, err := a.wallet.SignMsg(env, localID)
	if err != nil {
		return ``, fmt.Errorf(`signing invitation acceptance failed - %v`, err)
	}
	env[domain.FldSig] = sig

	a.sendMessage(env, models.Sender{Name: inv.Label, Endpoint: inv.Endpoint})
	return inv.Label, nil
}

// RequestClaim asks the peer of an accepted link to send the named claim.
func (a *Agent) RequestClaim(peer, claimName string) error {
	links, err := a.wallet.Links()
	if err != nil {
		return fmt.Errorf(`listing links failed - %v`, err)
	}

	var link *models.Link
	for _, l := range links {
		if l.Name == peer {
			link = l
			break
		}
	}

	if link == nil {
		return fmt.Errorf(`no link found for the peer (%s)`, peer)
	}

	if link.Status == models.LinkStatusPending {
		return fmt.Errorf(`link with %s is not accepted yet`, peer)
	}

	env := models.Envelope{
		domain.FldType:       domain.MsgTypRequestClaims,
		domain.FldIdentifier: link.LocalIdentifier,
		domain.FldNonce:      link.Nonce,
		domain.FldClaimName:  claimName,
	}

	sig, err := a.wallet.SignMsg(env, link.LocalIdentifier)
	if err != nil {
		return fmt.Errorf(`signing claim request failed - %v`, err)
	}
	env[domain.FldSig] = sig

	a.sendMessage(env, models.Sender{Name: peer, Endpoint: link.RemoteEndpoint})
	return nil
}

func (a *Agent) Links() ([]*models.Link, error) {
	return a.wallet.Links()
}

/* lifecycle */

func (a *Agent) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status != domain.StatusStopped {
		return nil
	}

	if err := a.tr.Start(); err != nil {
		return fmt.Errorf(`starting transport endpoint failed - %v`, err)
	}

	if err := a.ledger.Start(); err != nil {
		return fmt.Errorf(`starting ledger gateway failed - %v`, err)
	}

	a.status = domain.StatusStarting
	return nil
}

func (a *Agent) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status == domain.StatusStopped {
		return nil
	}

	if err := a.tr.Stop(); err != nil {
		return fmt.Errorf(`stopping transport endpoint failed - %v`, err)
	}

	if err := a.ledger.Stop(); err != nil {
		return fmt.Errorf(`stopping ledger gateway failed - %v`, err)
	}

	a.status = domain.StatusStopped
	return nil
}

func (a *Agent) Status() domain.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Prod performs at most limit units of pending work on each sub-component
// and returns the number of actions taken. It never blocks; an external
// driver loop invokes it repeatedly.
func (a *Agent) Prod(limit int) (count int) {
	a.mu.Lock()
	if a.status == domain.StatusStarting {
		a.status = domain.StatusStarted
		count++
	}
	started := a.status == domain.StatusStarted
	a.mu.Unlock()

	if !started {
		return count
	}

	count += a.ledger.Service(limit)
	count += a.tr.Service(limit)
	return count
}
