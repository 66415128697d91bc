package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/authz"
	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/invoiceb2b/financing-api/internal/transport/http/respond"
)

const identityKey = "identity"

// Verifier is the subset of the auth usecase the middleware needs.
type Verifier interface {
	Verify(ctx context.Context, raw string) (domain.Identity, error)
}

// Auth validates a Bearer token and stores the resulting identity in the
// request context. All token failures answer 401 with the same message.
func Auth(verifier Verifier, rsp *respond.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			rsp.Error(c, apperror.New(apperror.KindAuthentication, "Invalid or expired token"))
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			rsp.Error(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRole runs after Auth and gates the route on role membership. With
// no roles it only requires that Auth ran.
func RequireRole(rsp *respond.Responder, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			rsp.Error(c, apperror.New(apperror.KindAuthentication, "Invalid or expired token"))
			return
		}
		if err := authz.Require(identity, roles...); err != nil {
			rsp.Error(c, err)
			return
		}
		c.Next()
	}
}

// IdentityFrom extracts the authenticated identity set by Auth.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}
