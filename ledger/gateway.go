package ledger

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tryfix/log"
	"github.com/wzwerch/sovrin/domain"
	"github.com/wzwerch/sovrin/domain/messages"
	"github.com/wzwerch/sovrin/domain/services"
)

// Gateway buffers signed operations and forwards them to the configured
// ledger endpoint, fire-and-forget. Flushing happens only inside Service so
// the submitting handler never blocks on the network.
type Gateway struct {
	mu       sync.Mutex
	pending  []messages.SignedOperation
	client   services.Client
	endpoint string
	status   domain.Status
	log      log.Logger
}

func NewGateway(client services.Client, endpoint string, logger log.Logger) *Gateway {
	return &Gateway{client: client, endpoint: endpoint, log: logger}
}

func (g *Gateway) Submit(op messages.SignedOperation) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = append(g.pending, op)
}

// Service transmits at most limit queued operations and returns the number
// sent or dropped. A failed transmission is logged as a fault and the
// operation dropped; no confirmation is awaited in this core.
func (g *Gateway) Service(limit int) int {
	g.mu.Lock()
	n := limit
	if n > len(g.pending) {
		n = len(g.pending)
	}
	batch := g.pending[:n]
	g.pending = g.pending[n:]
	g.mu.Unlock()

	for _, op := range batch {
		if g.endpoint == `` {
			g.log.Error(`no ledger endpoint configured, operation dropped`)
			continue
		}

		byts, err := json.Marshal(op)
		if err != nil {
			g.log.Error(fmt.Sprintf(`marshalling ledger operation failed - %v`, err))
			continue
		}

		if err = g.client.Send(byts, g.endpoint); err != nil {
			g.log.Error(fmt.Sprintf(`submitting operation to ledger (%s) failed - %v`, g.endpoint, err))
		}
	}
	return n
}

func (g *Gateway) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.endpoint == `` {
		g.log.Warn(`no ledger endpoint configured, submissions will be dropped`)
	}
	g.status = domain.StatusStarted
	return nil
}

func (g *Gateway) Stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = domain.StatusStopped
	g.pending = nil
	return nil
}
