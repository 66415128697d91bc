package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/invoiceb2b/financing-api/internal/transport/http/middleware"
	"github.com/invoiceb2b/financing-api/internal/usecase"
)

type invoiceRequest struct {
	InvoiceNumber string    `json:"invoice_number" validate:"required,min=1,max=64"`
	CustomerName  string    `json:"customer_name"  validate:"required,min=1,max=200"`
	Amount        float64   `json:"amount"         validate:"required,gt=0"`
	Currency      string    `json:"currency"       validate:"required,oneof=USD EUR GBP NGN"`
	IssueDate     time.Time `json:"issue_date"     validate:"required"`
	DueDate       time.Time `json:"due_date"       validate:"required,future"`
	Description   string    `json:"description"    validate:"max=2000"`
}

type listInvoicesQuery struct {
	Page   int    `form:"page"   json:"page"   validate:"omitempty,min=1"`
	Limit  int    `form:"limit"  json:"limit"  validate:"omitempty,min=1,max=100"`
	Status string `form:"status" json:"status" validate:"omitempty,oneof=pending submitted approved funded rejected paid overdue"`
	Search string `form:"search" json:"search" validate:"omitempty,max=100"`
}

type invoiceResponse struct {
	ID            string               `json:"id"`
	InvoiceNumber string               `json:"invoice_number"`
	CustomerName  string               `json:"customer_name"`
	Amount        float64              `json:"amount"`
	Currency      string               `json:"currency"`
	Status        domain.InvoiceStatus `json:"status"`
	IssueDate     time.Time            `json:"issue_date"`
	DueDate       time.Time            `json:"due_date"`
	Description   string               `json:"description,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func toInvoiceResponse(inv *domain.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  inv.CustomerName,
		Amount:        inv.Amount,
		Currency:      inv.Currency,
		Status:        inv.Status,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Description:   inv.Description,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toInvoiceInput(req invoiceRequest) usecase.InvoiceInput {
	return usecase.InvoiceInput{
		InvoiceNumber: req.InvoiceNumber,
		CustomerName:  req.CustomerName,
		Amount:        req.Amount,
		Currency:      req.Currency,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		Description:   req.Description,
	}
}

// GET /api/business/invoices
func (h *BusinessHandler) ListInvoices(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var q listInvoicesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.rsp.Error(c, apperror.New(apperror.KindValidation, "Invalid query parameters"))
		return
	}
	if fieldErrs := h.validate.Validate(&q); fieldErrs != nil {
		h.rsp.Error(c, apperror.Validation(fieldErrs))
		return
	}

	invoices, page, err := h.uc.ListInvoices(c.Request.Context(), identity.ID, usecase.ListInvoicesInput{
		Status: domain.InvoiceStatus(q.Status),
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		h.rsp.Error(c, err)
		return
	}

	out := make([]invoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, toInvoiceResponse(&invoices[i]))
	}
	h.rsp.List(c, "Invoices retrieved successfully", out, page)
}

// POST /api/business/invoices
func (h *BusinessHandler) CreateInvoice(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rsp.Error(c, apperror.New(apperror.KindValidation, "Invalid request body"))
		return
	}
	if fieldErrs := h.validate.Validate(&req); fieldErrs != nil {
		h.rsp.Error(c, apperror.Validation(fieldErrs))
		return
	}

	inv, err := h.uc.CreateInvoice(c.Request.Context(), identity.ID, toInvoiceInput(req))
	if err != nil {
		h.rsp.Error(c, err)
		return
	}
	h.rsp.OK(c, http.StatusCreated, "Invoice created successfully", toInvoiceResponse(inv))
}

// PUT /api/business/invoices/:id
func (h *BusinessHandler) UpdateInvoice(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)
	invoiceID := c.Param("id")

	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rsp.Error(c, apperror.New(apperror.KindValidation, "Invalid request body"))
		return
	}
	if fieldErrs := h.validate.Validate(&req); fieldErrs != nil {
		h.rsp.Error(c, apperror.Validation(fieldErrs))
		return
	}

	inv, err := h.uc.UpdateInvoice(c.Request.Context(), identity.ID, invoiceID, toInvoiceInput(req))
	if err != nil {
		h.rsp.Error(c, err)
		return
	}
	h.rsp.OK(c, http.StatusOK, "Invoice updated successfully", toInvoiceResponse(inv))
}
