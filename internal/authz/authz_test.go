package authz_test

import (
	"errors"
	"testing"

	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/authz"
	"github.com/invoiceb2b/financing-api/internal/domain"
)

var (
	businessIdentity = domain.Identity{ID: "u1", Email: "b@example.com", Role: domain.RoleBusiness}
	adminIdentity    = domain.Identity{ID: "u2", Email: "a@example.com", Role: domain.RoleAdmin}
)

func TestRequire_MatchingRole_Allowed(t *testing.T) {
	if err := authz.Require(businessIdentity, domain.RoleBusiness); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := authz.Require(adminIdentity, domain.RoleAdmin); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRequire_WrongRole_Forbidden(t *testing.T) {
	err := authz.Require(businessIdentity, domain.RoleAdmin)
	if err == nil {
		t.Fatal("business identity passed an admin gate")
	}
	var ae *apperror.Error
	if !errors.As(err, &ae) || ae.Kind != apperror.KindAuthorization {
		t.Errorf("error = %v, want authorization kind", err)
	}
}

func TestRequire_AnyOfSeveralRoles(t *testing.T) {
	if err := authz.Require(businessIdentity, domain.RoleAdmin, domain.RoleBusiness); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// An empty role set only requires an authenticated identity.
func TestRequire_NoRoles_AllowsAnyIdentity(t *testing.T) {
	if err := authz.Require(businessIdentity); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := authz.Require(adminIdentity); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
