package agent

import (
	"sync"

	"github.com/wzwerch/sovrin/domain/services"
)

// observerHub fans human-readable progress lines out to the registered
// observers. Registration is keyed on the interface value itself, so the
// same observer instance registers and deregisters by identity.
type observerHub struct {
	*sync.RWMutex
	observers map[services.Observer]struct{}
}

func newObserverHub() *observerHub {
	return &observerHub{RWMutex: &sync.RWMutex{}, observers: map[services.Observer]struct{}{}}
}

func (h *observerHub) register(o services.Observer) {
	h.Lock()
	defer h.Unlock()
	h.observers[o] = struct{}{}
}

func (h *observerHub) deregister(o services.Observer) {
	h.Lock()
	defer h.Unlock()
	delete(h.observers, o)
}

func (h *observerHub) notify(text string) {
	h.RLock()
	defer h.RUnlock()
	for o := range h.observers {
		o.OnNotification(text)
	}
}

func (a *Agent) RegisterObserver(o services.Observer) {
	a.hub.register(o)
}

func (a *Agent) DeregisterObserver(o services.Observer) {
	a.hub.deregister(o)
}

func (a *Agent) notifyObservers(text string) {
	a.hub.notify(text)
}
