package auth

import (
	"strings"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
)

// Ensure the authorizers implement the interface.
var (
	_ driven.Authorizer = (*AdminEmailAuthorizer)(nil)
	_ driven.Authorizer = AllowAll{}
)

// AdminEmailAuthorizer grants every capability to one administrator email.
// Matching is case-insensitive. The system principal is always allowed.
type AdminEmailAuthorizer struct {
	adminEmail string
}

// NewAdminEmailAuthorizer creates an authorizer for the given administrator.
// An empty email grants nothing except to the system principal.
func NewAdminEmailAuthorizer(adminEmail string) *AdminEmailAuthorizer {
	return &AdminEmailAuthorizer{adminEmail: strings.ToLower(strings.TrimSpace(adminEmail))}
}

// HasCapability reports whether the principal holds the capability.
func (a *AdminEmailAuthorizer) HasCapability(principal domain.Principal, capability domain.Capability) bool {
	if capability != domain.CapabilityRAGImport {
		return false
	}
	if principal == domain.SystemPrincipal {
		return true
	}
	if a.adminEmail == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(principal.Email)) == a.adminEmail
}

// AllowAll grants every capability. Used for local single-operator tools.
type AllowAll struct{}

// HasCapability always returns true.
func (AllowAll) HasCapability(domain.Principal, domain.Capability) bool {
	return true
}
