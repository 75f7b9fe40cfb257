package transport

import (
	"fmt"
	"sync"

	"github.com/wzwerch/sovrin/domain/models"
)

// Bus connects in-process endpoints by name, standing in for the network in
// tests and single-process demos.
type Bus struct {
	mu        sync.RWMutex
	endpoints map[string]*Inmem
}

func NewBus() *Bus {
	return &Bus{endpoints: map[string]*Inmem{}}
}

func (b *Bus) attach(endpoint string, in *Inmem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.endpoints[endpoint] = in
}

func (b *Bus) lookup(endpoint string) (*Inmem, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	in, ok := b.endpoints[endpoint]
	return in, ok
}

// Inmem is a bus-attached endpoint with the same Service contract as the
// network endpoints: delivery enqueues, and messages reach the handler only
// when the owner polls.
type Inmem struct {
	bus     *Bus
	self    metadata
	mu      sync.Mutex
	queue   []inboundMsg
	handler func(data []byte, sender models.Sender)
	*registry
}

func NewInmem(bus *Bus, label, endpoint string) *Inmem {
	in := &Inmem{bus: bus, self: metadata{Label: label, Endpoint: endpoint}, registry: newRegistry()}
	bus.attach(endpoint, in)
	return in
}

func (i *Inmem) Start() error {
	return nil
}

func (i *Inmem) SetHandler(h func(data []byte, sender models.Sender)) {
	i.handler = h
}

func (i *Inmem) Send(data []byte, endpoint string) error {
	target, ok := i.bus.lookup(endpoint)
	if !ok {
		return fmt.Errorf(`no endpoint attached to the bus at %s`, endpoint)
	}

	msg := inboundMsg{data: append([]byte(nil), data...), sender: models.Sender{Name: i.self.Label, Endpoint: i.self.Endpoint}}
	target.mu.Lock()
	defer target.mu.Unlock()
	target.queue = append(target.queue, msg)
	return nil
}

func (i *Inmem) Service(limit int) (count int) {
	for ; count < limit; count++ {
		i.mu.Lock()
		if len(i.queue) == 0 {
			i.mu.Unlock()
			return count
		}
		in := i.queue[0]
		i.queue = i.queue[1:]
		i.mu.Unlock()

		i.Register(in.sender.Name, in.sender.Endpoint)
		if i.handler != nil {
			i.handler(in.data, in.sender)
		}
	}
	return count
}

func (i *Inmem) Stop() error {
	return nil
}
