package domain

// Capability names a permission checked by the Authorizer port.
type Capability string

// CapabilityRAGImport allows importing documents into the knowledge base.
const CapabilityRAGImport Capability = "rag:import"

// Principal is the authenticated caller of an operation.
type Principal struct {
	// Subject is the stable identity from the token.
	Subject string

	// Email is the caller's email address.
	Email string
}

// SystemPrincipal is used by local entry points (CLI, MCP over stdio)
// where the operator already has direct access to the stores.
var SystemPrincipal = Principal{Subject: "system", Email: "system@localhost"}

// IsZero reports whether no identity was presented.
func (p Principal) IsZero() bool {
	return p.Subject == "" && p.Email == ""
}
