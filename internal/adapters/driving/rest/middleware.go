package rest

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

const principalKey = "lexbase.principal"

// TokenVerifier maps a bearer token onto a principal.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}

// authMiddleware requires "Authorization: Bearer <token>".
func authMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			writeError(c, fmt.Errorf("%w: authorization header is required", domain.ErrUnauthenticated))
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			writeError(c, fmt.Errorf("%w: authorization header format must be Bearer {token}", domain.ErrUnauthenticated))
			return
		}

		principal, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func principalFrom(c *gin.Context) domain.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return domain.Principal{}
}
