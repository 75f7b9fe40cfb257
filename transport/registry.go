package transport

import (
	"sync"

	"github.com/wzwerch/sovrin/domain"
)

// registry maps peer names to network endpoints. Endpoints auto-register
// senders on receipt, so a reply can always be routed by name.
type registry struct {
	*sync.RWMutex
	remotes map[string]string
}

func newRegistry() *registry {
	return &registry{RWMutex: &sync.RWMutex{}, remotes: map[string]string{}}
}

func (r *registry) Register(name, endpoint string) {
	r.Lock()
	defer r.Unlock()
	r.remotes[name] = endpoint
}

func (r *registry) Resolve(name string) (string, error) {
	r.RLock()
	defer r.RUnlock()
	endpoint, ok := r.remotes[name]
	if !ok {
		return ``, domain.ErrRemoteNotFound
	}
	return endpoint, nil
}
