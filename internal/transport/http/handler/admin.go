package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/invoiceb2b/financing-api/internal/transport/http/respond"
	"github.com/invoiceb2b/financing-api/internal/usecase"
	"github.com/invoiceb2b/financing-api/internal/validation"
)

type AdminHandler struct {
	uc       *usecase.AdminUsecase
	validate *validation.Pipeline
	rsp      *respond.Responder
	logger   *slog.Logger
}

func NewAdminHandler(uc *usecase.AdminUsecase, validate *validation.Pipeline, rsp *respond.Responder, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		uc:       uc,
		validate: validate,
		rsp:      rsp,
		logger:   logger.With("component", "admin_handler"),
	}
}

type listBusinessesQuery struct {
	Page   int    `form:"page"   json:"page"   validate:"omitempty,min=1"`
	Limit  int    `form:"limit"  json:"limit"  validate:"omitempty,min=1,max=100"`
	Status string `form:"status" json:"status" validate:"omitempty,oneof=pending approved rejected suspended"`
	Search string `form:"search" json:"search" validate:"omitempty,max=100"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected suspended"`
}

type businessListItem struct {
	businessResponse
	Email         string  `json:"email"`
	TotalInvoices int     `json:"total_invoices"`
	TotalFunded   float64 `json:"total_funded_amount"`
}

type recentInvoiceResponse struct {
	ID            string               `json:"id"`
	InvoiceNumber string               `json:"invoice_number"`
	CustomerName  string               `json:"customer_name"`
	Amount        float64              `json:"amount"`
	Status        domain.InvoiceStatus `json:"status"`
	CompanyName   string               `json:"company_name"`
	CreatedAt     time.Time            `json:"created_at"`
}

type dashboardResponse struct {
	TotalBusinesses   int                     `json:"total_businesses"`
	PendingBusinesses int                     `json:"pending_businesses"`
	TotalInvoices     int                     `json:"total_invoices"`
	TotalFunded       float64                 `json:"total_funded_amount"`
	RecentInvoices    []recentInvoiceResponse `json:"recent_invoices"`
}

// GET /api/admin/businesses
func (h *AdminHandler) ListBusinesses(c *gin.Context) {
	var q listBusinessesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.rsp.Error(c, apperror.New(apperror.KindValidation, "Invalid query parameters"))
		return
	}
	if fieldErrs := h.validate.Validate(&q); fieldErrs != nil {
		h.rsp.Error(c, apperror.Validation(fieldErrs))
		return
	}

	businesses, page, err := h.uc.ListBusinesses(c.Request.Context(), usecase.ListBusinessesInput{
		Status: domain.BusinessStatus(q.Status),
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		h.rsp.Error(c, err)
		return
	}

	out := make([]businessListItem, 0, len(businesses))
	for i := range businesses {
		b := &businesses[i]
		out = append(out, businessListItem{
			businessResponse: toBusinessResponse(&b.Business),
			Email:            b.Email,
			TotalInvoices:    b.TotalInvoices,
			TotalFunded:      b.TotalFunded,
		})
	}
	h.rsp.List(c, "Businesses retrieved successfully", out, page)
}

// PUT /api/admin/businesses/:id/status
func (h *AdminHandler) UpdateBusinessStatus(c *gin.Context) {
	businessID := c.Param("id")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rsp.Error(c, apperror.New(apperror.KindValidation, "Invalid request body"))
		return
	}
	if fieldErrs := h.validate.Validate(&req); fieldErrs != nil {
		h.rsp.Error(c, apperror.Validation(fieldErrs))
		return
	}

	if err := h.uc.UpdateBusinessStatus(c.Request.Context(), businessID, domain.BusinessStatus(req.Status)); err != nil {
		h.rsp.Error(c, err)
		return
	}
	h.rsp.OK(c, http.StatusOK, "Business status updated successfully", nil)
}

// GET /api/admin/dashboard-summary
func (h *AdminHandler) Dashboard(c *gin.Context) {
	summary, err := h.uc.Dashboard(c.Request.Context())
	if err != nil {
		h.rsp.Error(c, err)
		return
	}

	recent := make([]recentInvoiceResponse, 0, len(summary.RecentInvoices))
	for _, inv := range summary.RecentInvoices {
		recent = append(recent, recentInvoiceResponse{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  inv.CustomerName,
			Amount:        inv.Amount,
			Status:        inv.Status,
			CompanyName:   inv.CompanyName,
			CreatedAt:     inv.CreatedAt,
		})
	}

	h.rsp.OK(c, http.StatusOK, "Dashboard summary retrieved successfully", dashboardResponse{
		TotalBusinesses:   summary.TotalBusinesses,
		PendingBusinesses: summary.PendingBusinesses,
		TotalInvoices:     summary.TotalInvoices,
		TotalFunded:       summary.TotalFunded,
		RecentInvoices:    recent,
	})
}
