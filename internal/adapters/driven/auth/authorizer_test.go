package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

func TestAdminEmailAuthorizer(t *testing.T) {
	a := NewAdminEmailAuthorizer(" Admin@Firm.com ")

	tests := []struct {
		name      string
		principal domain.Principal
		cap       domain.Capability
		want      bool
	}{
		{"exact admin", domain.Principal{Email: "admin@firm.com"}, domain.CapabilityRAGImport, true},
		{"case-insensitive", domain.Principal{Email: "ADMIN@FIRM.COM"}, domain.CapabilityRAGImport, true},
		{"other user", domain.Principal{Email: "clerk@firm.com"}, domain.CapabilityRAGImport, false},
		{"anonymous", domain.Principal{}, domain.CapabilityRAGImport, false},
		{"system", domain.SystemPrincipal, domain.CapabilityRAGImport, true},
		{"unknown capability", domain.Principal{Email: "admin@firm.com"}, domain.Capability("rag:delete"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.HasCapability(tt.principal, tt.cap))
		})
	}
}

func TestAdminEmailAuthorizer_NoAdminConfigured(t *testing.T) {
	a := NewAdminEmailAuthorizer("")
	assert.False(t, a.HasCapability(domain.Principal{Email: ""}, domain.CapabilityRAGImport))
	assert.False(t, a.HasCapability(domain.Principal{Subject: "u", Email: ""}, domain.CapabilityRAGImport))
	assert.True(t, a.HasCapability(domain.SystemPrincipal, domain.CapabilityRAGImport))
}

func TestAllowAll(t *testing.T) {
	assert.True(t, AllowAll{}.HasCapability(domain.Principal{}, domain.CapabilityRAGImport))
}
