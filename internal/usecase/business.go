package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/invoiceb2b/financing-api/internal/repository"
)

// BusinessUsecase serves the business-role surface: the company profile and
// its invoices. Everything is scoped to the business owned by the calling
// user; cross-business access is impossible by construction.
type BusinessUsecase struct {
	businesses repository.BusinessRepository
	invoices   repository.InvoiceRepository
}

func NewBusinessUsecase(businesses repository.BusinessRepository, invoices repository.InvoiceRepository) *BusinessUsecase {
	return &BusinessUsecase{businesses: businesses, invoices: invoices}
}

func (u *BusinessUsecase) GetProfile(ctx context.Context, userID string) (*domain.Business, error) {
	biz, err := u.businesses.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrBusinessNotFound) {
			return nil, apperror.New(apperror.KindNotFound, "Business profile not found")
		}
		return nil, apperror.Internal(fmt.Errorf("find business: %w", err))
	}
	return biz, nil
}

func (u *BusinessUsecase) UpdateProfile(ctx context.Context, userID string, upd repository.ProfileUpdate) error {
	if err := u.businesses.UpdateProfile(ctx, userID, upd); err != nil {
		if errors.Is(err, domain.ErrBusinessNotFound) {
			return apperror.New(apperror.KindNotFound, "Business profile not found")
		}
		return apperror.Internal(fmt.Errorf("update business: %w", err))
	}
	return nil
}

type ListInvoicesInput struct {
	Status domain.InvoiceStatus
	Search string
	Page   int
	Limit  int
}

func (u *BusinessUsecase) ListInvoices(ctx context.Context, userID string, input ListInvoicesInput) ([]domain.Invoice, domain.Page, error) {
	biz, err := u.GetProfile(ctx, userID)
	if err != nil {
		return nil, domain.Page{}, err
	}

	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 || input.Limit > 100 {
		input.Limit = 10
	}

	invoices, total, err := u.invoices.List(ctx, domain.InvoiceFilter{
		BusinessID: biz.ID,
		Status:     input.Status,
		Search:     input.Search,
		Page:       input.Page,
		Limit:      input.Limit,
	})
	if err != nil {
		return nil, domain.Page{}, apperror.Internal(fmt.Errorf("list invoices: %w", err))
	}
	return invoices, domain.NewPage(input.Page, input.Limit, total), nil
}
