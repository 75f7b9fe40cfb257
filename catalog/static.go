package catalog

import "github.com/wzwerch/sovrin/domain/messages"

// Static serves a fixed claim catalog configured at startup. The agent
// consumes it as an external collaborator; issuing logic beyond lookup is
// out of this core.
type Static struct {
	available []messages.AvailableClaim
	claims    []messages.Claim
}

func NewStatic(available []messages.AvailableClaim, claims []messages.Claim) *Static {
	return &Static{available: available, claims: claims}
}

func (s *Static) AvailableClaims() []messages.AvailableClaim {
	return append([]messages.AvailableClaim(nil), s.available...)
}

func (s *Static) Claims() []messages.Claim {
	return append([]messages.Claim(nil), s.claims...)
}
