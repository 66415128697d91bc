package repository

import (
	"context"

	"github.com/invoiceb2b/financing-api/internal/domain"
)

// ProfileUpdate carries the mutable business profile fields. Nil pointers
// mean "leave unchanged".
type ProfileUpdate struct {
	CompanyName   *string
	Industry      *string
	AnnualRevenue *float64
	EmployeeCount *int
	ContactPhone  *string
	Address       *domain.Address
}

type BusinessRepository interface {
	// CreateEmpty inserts a pending, unnamed business row for a freshly
	// registered user.
	CreateEmpty(ctx context.Context, userID string) (*domain.Business, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Business, error)
	// UpdateProfile applies the non-nil fields. Returns
	// domain.ErrBusinessNotFound when the user has no business row.
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) error
	// List returns one page of businesses with owner email and invoice
	// totals, plus the unpaged total count.
	List(ctx context.Context, filter domain.BusinessFilter) ([]domain.BusinessWithTotals, int, error)
	// UpdateStatus sets the review status and returns the owning user id.
	UpdateStatus(ctx context.Context, id string, status domain.BusinessStatus) (string, error)
	DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error)
}
