package agent

import (
	"github.com/wzwerch/sovrin/domain"
	"github.com/wzwerch/sovrin/domain/models"
)

// Fetching a missing claim definition from the ledger and resolving issuer
// key material are extension points of this core. The defaults refuse with
// a distinct error kind rather than inventing behavior.

type unsupportedClaimDefResolver struct{}

func (unsupportedClaimDefResolver) Resolve(models.ClaimDefKey) (models.ClaimDef, error) {
	return models.ClaimDef{}, domain.ErrUnsupportedOperation
}

type unsupportedIssuerKeyResolver struct{}

func (unsupportedIssuerKeyResolver) Resolve(string) (map[string]string, error) {
	return nil, domain.ErrUnsupportedOperation
}
