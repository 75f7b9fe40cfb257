package services

import "github.com/wzwerch/sovrin/domain/models"

// Store persists links and claim definitions for a wallet. Lookups are
// exact-match; missing records surface as domain.ErrLinkNotFound and
// domain.ErrClaimDefNotFound. Implementations hand out independent copies,
// so a link mutation becomes visible only through SaveLink.
type Store interface {
	SaveLink(l *models.Link) error
	LinkByNonce(nonce string) (*models.Link, error)
	LinkByTarget(target string) (*models.Link, error)
	Links() ([]*models.Link, error)
	SaveClaimDef(def models.ClaimDef) error
	ClaimDef(key models.ClaimDefKey) (*models.ClaimDef, error)
}
