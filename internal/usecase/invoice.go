package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/invoiceb2b/financing-api/internal/metrics"
)

type InvoiceInput struct {
	InvoiceNumber string
	CustomerName  string
	Amount        float64
	Currency      string
	IssueDate     time.Time
	DueDate       time.Time
	Description   string
}

func (u *BusinessUsecase) CreateInvoice(ctx context.Context, userID string, input InvoiceInput) (*domain.Invoice, error) {
	biz, err := u.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	created, err := u.invoices.Create(ctx, &domain.Invoice{
		BusinessID:    biz.ID,
		InvoiceNumber: input.InvoiceNumber,
		CustomerName:  input.CustomerName,
		Amount:        input.Amount,
		Currency:      input.Currency,
		Status:        domain.InvoicePending,
		IssueDate:     input.IssueDate,
		DueDate:       input.DueDate,
		Description:   input.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateInvoice) {
			return nil, apperror.New(apperror.KindConflict, "Invoice with this number already exists")
		}
		return nil, apperror.Internal(fmt.Errorf("create invoice: %w", err))
	}

	metrics.InvoicesCreatedTotal.Inc()
	return created, nil
}

// UpdateInvoice replaces the editable fields of an invoice that has not been
// funded yet. Funded and paid invoices are immutable from the business side.
func (u *BusinessUsecase) UpdateInvoice(ctx context.Context, userID, invoiceID string, input InvoiceInput) (*domain.Invoice, error) {
	biz, err := u.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	inv, err := u.invoices.FindByID(ctx, invoiceID, biz.ID)
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			return nil, apperror.New(apperror.KindNotFound, "Invoice not found")
		}
		return nil, apperror.Internal(fmt.Errorf("find invoice: %w", err))
	}

	if !inv.Status.Editable() {
		return nil, apperror.New(apperror.KindConflict, "Invoice has already been funded")
	}

	inv.InvoiceNumber = input.InvoiceNumber
	inv.CustomerName = input.CustomerName
	inv.Amount = input.Amount
	inv.Currency = input.Currency
	inv.IssueDate = input.IssueDate
	inv.DueDate = input.DueDate
	inv.Description = input.Description

	updated, err := u.invoices.Update(ctx, inv)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateInvoice) {
			return nil, apperror.New(apperror.KindConflict, "Invoice with this number already exists")
		}
		return nil, apperror.Internal(fmt.Errorf("update invoice: %w", err))
	}
	return updated, nil
}
