package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/invoiceb2b/financing-api/internal/email"
	"github.com/invoiceb2b/financing-api/internal/repository"
)

// AdminUsecase serves the admin surface: business review and the dashboard.
type AdminUsecase struct {
	businesses repository.BusinessRepository
	users      repository.UserRepository
	email      email.Sender
	logger     *slog.Logger
}

func NewAdminUsecase(
	businesses repository.BusinessRepository,
	users repository.UserRepository,
	sender email.Sender,
	logger *slog.Logger,
) *AdminUsecase {
	return &AdminUsecase{
		businesses: businesses,
		users:      users,
		email:      sender,
		logger:     logger.With("component", "admin_usecase"),
	}
}

type ListBusinessesInput struct {
	Status domain.BusinessStatus
	Search string
	Page   int
	Limit  int
}

func (u *AdminUsecase) ListBusinesses(ctx context.Context, input ListBusinessesInput) ([]domain.BusinessWithTotals, domain.Page, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 || input.Limit > 100 {
		input.Limit = 10
	}

	businesses, total, err := u.businesses.List(ctx, domain.BusinessFilter{
		Status: input.Status,
		Search: input.Search,
		Page:   input.Page,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, domain.Page{}, apperror.Internal(fmt.Errorf("list businesses: %w", err))
	}
	return businesses, domain.NewPage(input.Page, input.Limit, total), nil
}

// UpdateBusinessStatus sets the review status of a business. Approval also
// approves the owning user so their next login succeeds, and notifies them
// by email.
func (u *AdminUsecase) UpdateBusinessStatus(ctx context.Context, businessID string, status domain.BusinessStatus) error {
	userID, err := u.businesses.UpdateStatus(ctx, businessID, status)
	if err != nil {
		if errors.Is(err, domain.ErrBusinessNotFound) {
			return apperror.New(apperror.KindNotFound, "Business not found")
		}
		return apperror.Internal(fmt.Errorf("update business status: %w", err))
	}

	if status != domain.BusinessApproved {
		return nil
	}

	if err := u.users.Approve(ctx, userID); err != nil {
		return apperror.Internal(fmt.Errorf("approve user: %w", err))
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		// Approval succeeded; the missing notification is logged, not surfaced.
		u.logger.ErrorContext(ctx, "find user for approval email", "user_id", userID, "error", err)
		return nil
	}
	if err := u.email.Send(ctx, user.Email, "Account approved",
		"<p>Your business account has been approved. You can now sign in and submit invoices for financing.</p>"); err != nil {
		u.logger.ErrorContext(ctx, "send approval email", "to", user.Email, "error", err)
	}
	return nil
}

func (u *AdminUsecase) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	summary, err := u.businesses.DashboardSummary(ctx)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("dashboard summary: %w", err))
	}
	return summary, nil
}
