// Package authz decides whether an authenticated identity may proceed.
// It only ever sees identities produced by the authenticator; raw tokens
// never reach it.
package authz

import (
	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/domain"
)

// Require allows the identity through when its role is in the allowed set.
// An empty set is an authentication-only gate: every authenticated identity
// passes. The denial message never reveals which roles would have been
// accepted.
func Require(id domain.Identity, allowed ...domain.Role) error {
	if len(allowed) == 0 {
		return nil
	}
	for _, role := range allowed {
		if id.Role == role {
			return nil
		}
	}
	return apperror.New(apperror.KindAuthorization, "Insufficient permissions")
}
