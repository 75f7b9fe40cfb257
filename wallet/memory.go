package wallet

import (
	"fmt"
	"sort"
	"sync"

	"github.com/wzwerch/sovrin/domain"
	"github.com/wzwerch/sovrin/domain/models"
)

// MemoryStore keeps links and claim definitions in process memory, indexed
// by nonce and by target identifier. Clones are stored and returned so a
// caller's mutation is persisted only through SaveLink, the same contract
// the redis backend gives.
type MemoryStore struct {
	*sync.RWMutex
	links    map[string]*models.Link // key: nonce
	byTarget map[string]string       // target identifier -> nonce
	defs     map[models.ClaimDefKey]models.ClaimDef
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		RWMutex:  &sync.RWMutex{},
		links:    map[string]*models.Link{},
		byTarget: map[string]string{},
		defs:     map[models.ClaimDefKey]models.ClaimDef{},
	}
}

func (m *MemoryStore) SaveLink(l *models.Link) error {
	if l.Nonce == `` {
		return fmt.Errorf(`link has no nonce`)
	}

	m.Lock()
	defer m.Unlock()
	m.links[l.Nonce] = l.Clone()
	if l.TargetIdentifier != `` {
		m.byTarget[l.TargetIdentifier] = l.Nonce
	}
	return nil
}

func (m *MemoryStore) LinkByNonce(nonce string) (*models.Link, error) {
	m.RLock()
	defer m.RUnlock()
	l, ok := m.links[nonce]
	if !ok {
		return nil, domain.ErrLinkNotFound
	}
	return l.Clone(), nil
}

func (m *MemoryStore) LinkByTarget(target string) (*models.Link, error) {
	m.RLock()
	defer m.RUnlock()
	nonce, ok := m.byTarget[target]
	if !ok {
		return nil, domain.ErrLinkNotFound
	}
	return m.links[nonce].Clone(), nil
}

func (m *MemoryStore) Links() (ls []*models.Link, err error) {
	m.RLock()
	defer m.RUnlock()
	var nonces []string
	for n := range m.links {
		nonces = append(nonces, n)
	}

	sort.Strings(nonces)
	for _, n := range nonces {
		ls = append(ls, m.links[n].Clone())
	}
	return ls, nil
}

func (m *MemoryStore) SaveClaimDef(def models.ClaimDef) error {
	m.Lock()
	defer m.Unlock()
	m.defs[def.Key] = def
	return nil
}

func (m *MemoryStore) ClaimDef(key models.ClaimDefKey) (*models.ClaimDef, error) {
	m.RLock()
	defer m.RUnlock()
	def, ok := m.defs[key]
	if !ok {
		return nil, domain.ErrClaimDefNotFound
	}
	return &def, nil
}
