package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/invoiceb2b/financing-api/internal/repository"
	"github.com/invoiceb2b/financing-api/internal/transport/http/middleware"
	"github.com/invoiceb2b/financing-api/internal/transport/http/respond"
	"github.com/invoiceb2b/financing-api/internal/usecase"
	"github.com/invoiceb2b/financing-api/internal/validation"
)

type BusinessHandler struct {
	uc       *usecase.BusinessUsecase
	validate *validation.Pipeline
	rsp      *respond.Responder
	logger   *slog.Logger
}

func NewBusinessHandler(uc *usecase.BusinessUsecase, validate *validation.Pipeline, rsp *respond.Responder, logger *slog.Logger) *BusinessHandler {
	return &BusinessHandler{
		uc:       uc,
		validate: validate,
		rsp:      rsp,
		logger:   logger.With("component", "business_handler"),
	}
}

type addressRequest struct {
	Street     string `json:"street"      validate:"required,min=2,max=200"`
	City       string `json:"city"        validate:"required,min=1,max=100"`
	PostalCode string `json:"postal_code" validate:"required,postal"`
	Country    string `json:"country"     validate:"required,len=2"`
}

type updateProfileRequest struct {
	CompanyName   *string         `json:"company_name"   validate:"omitempty,min=2,max=200"`
	Industry      *string         `json:"industry"       validate:"omitempty,min=2,max=100"`
	AnnualRevenue *float64        `json:"annual_revenue" validate:"omitempty,gt=0"`
	EmployeeCount *int            `json:"employee_count" validate:"omitempty,gt=0"`
	ContactPhone  *string         `json:"contact_phone"  validate:"omitempty,phone"`
	Address       *addressRequest `json:"address"`
}

// HasFields marks this as a partial update: at least one field is required.
func (r *updateProfileRequest) HasFields() bool {
	return r.CompanyName != nil || r.Industry != nil || r.AnnualRevenue != nil ||
		r.EmployeeCount != nil || r.ContactPhone != nil || r.Address != nil
}

type addressResponse struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type businessResponse struct {
	ID            string                `json:"id"`
	CompanyName   string                `json:"company_name"`
	Industry      string                `json:"industry"`
	AnnualRevenue float64               `json:"annual_revenue"`
	EmployeeCount int                   `json:"employee_count"`
	ContactPhone  string                `json:"contact_phone,omitempty"`
	Status        domain.BusinessStatus `json:"status"`
	Address       *addressResponse      `json:"address,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func toBusinessResponse(b *domain.Business) businessResponse {
	out := businessResponse{
		ID:            b.ID,
		CompanyName:   b.CompanyName,
		Industry:      b.Industry,
		AnnualRevenue: b.AnnualRevenue,
		EmployeeCount: b.EmployeeCount,
		ContactPhone:  b.ContactPhone,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.Address != nil {
		out.Address = &addressResponse{
			Street:     b.Address.Street,
			City:       b.Address.City,
			PostalCode: b.Address.PostalCode,
			Country:    b.Address.Country,
		}
	}
	return out
}

// GET /api/business/profile
func (h *BusinessHandler) GetProfile(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	biz, err := h.uc.GetProfile(c.Request.Context(), identity.ID)
	if err != nil {
		h.rsp.Error(c, err)
		return
	}
	h.rsp.OK(c, http.StatusOK, "Business profile retrieved successfully", toBusinessResponse(biz))
}

// PUT /api/business/profile
func (h *BusinessHandler) UpdateProfile(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rsp.Error(c, apperror.New(apperror.KindValidation, "Invalid request body"))
		return
	}
	if fieldErrs := h.validate.Validate(&req); fieldErrs != nil {
		h.rsp.Error(c, apperror.Validation(fieldErrs))
		return
	}

	upd := repository.ProfileUpdate{
		CompanyName:   req.CompanyName,
		Industry:      req.Industry,
		AnnualRevenue: req.AnnualRevenue,
		EmployeeCount: req.EmployeeCount,
		ContactPhone:  req.ContactPhone,
	}
	if req.Address != nil {
		upd.Address = &domain.Address{
			Street:     req.Address.Street,
			City:       req.Address.City,
			PostalCode: req.Address.PostalCode,
			Country:    req.Address.Country,
		}
	}

	if err := h.uc.UpdateProfile(c.Request.Context(), identity.ID, upd); err != nil {
		h.rsp.Error(c, err)
		return
	}
	h.rsp.OK(c, http.StatusOK, "Business profile updated successfully", nil)
}
