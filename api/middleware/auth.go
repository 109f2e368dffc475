package middleware

import (
	"storefront/api/response"
	"storefront/domain/identity"

	"github.com/gin-gonic/gin"
)

// IdentityKey gin context key holding the authenticated identity
const IdentityKey = "identity"

// TokenVerifier decodes a session token.
type TokenVerifier interface {
	Verify(token string) (identity.Identity, error)
}

// Authenticate reads the session token from cookieName and attaches the
// identity to the request. A missing cookie is ErrUnauthenticated (401),
// a bad one ErrInvalidToken (401).
func Authenticate(verifier TokenVerifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)
		id, err := verifier.Verify(token)
		if err != nil {
			response.HandleAppError(c, err)
			return
		}

		c.Set(IdentityKey, id)
		c.Request = c.Request.WithContext(identity.NewContext(c.Request.Context(), id))
		c.Next()
	}
}

// RequireRole rejects authenticated callers without role (403).
// Must run after Authenticate.
func RequireRole(role identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := identity.FromContext(c.Request.Context())
		if err == nil {
			err = id.Require(role)
		}
		if err != nil {
			response.HandleAppError(c, err)
			return
		}
		c.Next()
	}
}
