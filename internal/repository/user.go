package repository

import (
	"context"

	"github.com/invoiceb2b/financing-api/internal/domain"
)

type UserRepository interface {
	// Create inserts a user. Returns domain.ErrEmailTaken when the email is
	// already registered.
	Create(ctx context.Context, email, passwordHash string, role domain.Role, isApproved bool) (*domain.User, error)
	// FindByEmail looks a user up by normalized (lowercase) email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Approve flips is_approved for the user.
	Approve(ctx context.Context, id string) error
}
