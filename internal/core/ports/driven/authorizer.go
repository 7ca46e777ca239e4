package driven

import "github.com/custodia-labs/lexbase/internal/core/domain"

// Authorizer answers capability questions for a principal.
type Authorizer interface {
	// HasCapability reports whether the principal holds the capability.
	HasCapability(principal domain.Principal, capability domain.Capability) bool
}
