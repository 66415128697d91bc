package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/invoiceb2b/financing-api/internal/repository"
	"github.com/invoiceb2b/financing-api/internal/transport/http/handler"
	"github.com/invoiceb2b/financing-api/internal/transport/http/middleware"
	"github.com/invoiceb2b/financing-api/internal/transport/http/respond"
	"github.com/invoiceb2b/financing-api/internal/usecase"
	"github.com/invoiceb2b/financing-api/internal/validation"
)

// ---- fakes ----

type fakeBusinessRepo struct {
	findByUserID  func(ctx context.Context, userID string) (*domain.Business, error)
	updateProfile func(ctx context.Context, userID string, upd repository.ProfileUpdate) error
}

func (r *fakeBusinessRepo) CreateEmpty(context.Context, string) (*domain.Business, error) {
	return nil, nil
}

func (r *fakeBusinessRepo) FindByUserID(ctx context.Context, userID string) (*domain.Business, error) {
	return r.findByUserID(ctx, userID)
}

func (r *fakeBusinessRepo) UpdateProfile(ctx context.Context, userID string, upd repository.ProfileUpdate) error {
	return r.updateProfile(ctx, userID, upd)
}

func (r *fakeBusinessRepo) List(context.Context, domain.BusinessFilter) ([]domain.BusinessWithTotals, int, error) {
	return nil, 0, nil
}

func (r *fakeBusinessRepo) UpdateStatus(context.Context, string, domain.BusinessStatus) (string, error) {
	return "", nil
}

func (r *fakeBusinessRepo) DashboardSummary(context.Context) (*domain.DashboardSummary, error) {
	return nil, nil
}

type fakeInvoiceRepo struct {
	create   func(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	findByID func(ctx context.Context, id, businessID string) (*domain.Invoice, error)
	list     func(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, int, error)
	update   func(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
}

func (r *fakeInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	return r.create(ctx, inv)
}

func (r *fakeInvoiceRepo) FindByID(ctx context.Context, id, businessID string) (*domain.Invoice, error) {
	return r.findByID(ctx, id, businessID)
}

func (r *fakeInvoiceRepo) List(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, int, error) {
	return r.list(ctx, filter)
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	return r.update(ctx, inv)
}

func (r *fakeInvoiceRepo) MarkOverdue(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type staticVerifier struct {
	identity domain.Identity
}

func (v *staticVerifier) Verify(context.Context, string) (domain.Identity, error) {
	return v.identity, nil
}

// ---- setup ----

var (
	ownerIdentity = domain.Identity{ID: "u1", Email: "owner@example.com", Role: domain.RoleBusiness}
	ownedBusiness = &domain.Business{ID: "b1", UserID: "u1", CompanyName: "Acme", Status: domain.BusinessApproved}
)

func newBusinessEngine(businesses *fakeBusinessRepo, invoices *fakeInvoiceRepo) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rsp := respond.New(logger, false)
	uc := usecase.NewBusinessUsecase(businesses, invoices)
	h := handler.NewBusinessHandler(uc, validation.New(), rsp, logger)

	r := gin.New()
	auth := middleware.Auth(&staticVerifier{identity: ownerIdentity}, rsp)
	r.GET("/api/business/profile", auth, h.GetProfile)
	r.PUT("/api/business/profile", auth, h.UpdateProfile)
	r.GET("/api/business/invoices", auth, h.ListInvoices)
	r.POST("/api/business/invoices", auth, h.CreateInvoice)
	r.PUT("/api/business/invoices/:id", auth, h.UpdateInvoice)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer t")
	r.ServeHTTP(w, req)
	return w
}

func validInvoiceBody(due time.Time) string {
	b, _ := json.Marshal(map[string]any{
		"invoice_number": "INV-42",
		"customer_name":  "Globex Corp",
		"amount":         1200.50,
		"currency":       "USD",
		"issue_date":     time.Now().Format(time.RFC3339),
		"due_date":       due.Format(time.RFC3339),
	})
	return string(b)
}

// ---- profile ----

func TestGetProfile_ReturnsOwnBusiness(t *testing.T) {
	businesses := &fakeBusinessRepo{
		findByUserID: func(_ context.Context, userID string) (*domain.Business, error) {
			if userID != ownerIdentity.ID {
				t.Errorf("looked up %q, want the caller's user id", userID)
			}
			return ownedBusiness, nil
		},
	}

	w := do(newBusinessEngine(businesses, &fakeInvoiceRepo{}), http.MethodGet, "/api/business/profile", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Acme") {
		t.Errorf("body %s does not carry the business", w.Body.String())
	}
}

func TestUpdateProfile_EmptyBody_Returns400(t *testing.T) {
	businesses := &fakeBusinessRepo{
		updateProfile: func(_ context.Context, _ string, _ repository.ProfileUpdate) error {
			t.Fatal("repository must not be reached for an empty update")
			return nil
		},
	}

	w := do(newBusinessEngine(businesses, &fakeInvoiceRepo{}), http.MethodPut, "/api/business/profile", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "At least one field") {
		t.Errorf("body %s does not explain the at-least-one-field rule", w.Body.String())
	}
}

func TestUpdateProfile_BadPhone_Returns400(t *testing.T) {
	w := do(newBusinessEngine(&fakeBusinessRepo{}, &fakeInvoiceRepo{}), http.MethodPut, "/api/business/profile",
		`{"contact_phone":"not-a-phone"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdateProfile_PartialAddress_Returns400(t *testing.T) {
	// An address, when present, must be complete.
	w := do(newBusinessEngine(&fakeBusinessRepo{}, &fakeInvoiceRepo{}), http.MethodPut, "/api/business/profile",
		`{"address":{"street":"Main St 1"}}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdateProfile_OneField_Succeeds(t *testing.T) {
	var captured repository.ProfileUpdate
	businesses := &fakeBusinessRepo{
		updateProfile: func(_ context.Context, _ string, upd repository.ProfileUpdate) error {
			captured = upd
			return nil
		},
	}

	w := do(newBusinessEngine(businesses, &fakeInvoiceRepo{}), http.MethodPut, "/api/business/profile",
		`{"company_name":"Acme Rebranded"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if captured.CompanyName == nil || *captured.CompanyName != "Acme Rebranded" {
		t.Errorf("update = %+v, want only company_name set", captured)
	}
	if captured.Industry != nil || captured.Address != nil {
		t.Errorf("untouched fields should stay nil: %+v", captured)
	}
}

// ---- invoices ----

func TestCreateInvoice_PastDueDate_Returns400(t *testing.T) {
	w := do(newBusinessEngine(&fakeBusinessRepo{}, &fakeInvoiceRepo{}), http.MethodPost, "/api/business/invoices",
		validInvoiceBody(time.Now().Add(-24*time.Hour)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateInvoice_UnknownCurrency_Returns400(t *testing.T) {
	body := strings.Replace(validInvoiceBody(time.Now().Add(24*time.Hour)), "USD", "XXX", 1)
	w := do(newBusinessEngine(&fakeBusinessRepo{}, &fakeInvoiceRepo{}), http.MethodPost, "/api/business/invoices", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateInvoice_Valid_Returns201(t *testing.T) {
	businesses := &fakeBusinessRepo{
		findByUserID: func(_ context.Context, _ string) (*domain.Business, error) {
			return ownedBusiness, nil
		},
	}
	invoices := &fakeInvoiceRepo{
		create: func(_ context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
			out := *inv
			out.ID = "i1"
			return &out, nil
		},
	}

	w := do(newBusinessEngine(businesses, invoices), http.MethodPost, "/api/business/invoices",
		validInvoiceBody(time.Now().Add(24*time.Hour)))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"pending"`) {
		t.Errorf("body %s: new invoice should be pending", w.Body.String())
	}
}

func TestUpdateInvoice_Funded_Returns409(t *testing.T) {
	businesses := &fakeBusinessRepo{
		findByUserID: func(_ context.Context, _ string) (*domain.Business, error) {
			return ownedBusiness, nil
		},
	}
	invoices := &fakeInvoiceRepo{
		findByID: func(_ context.Context, id, businessID string) (*domain.Invoice, error) {
			return &domain.Invoice{ID: id, BusinessID: businessID, Status: domain.InvoiceFunded}, nil
		},
	}

	w := do(newBusinessEngine(businesses, invoices), http.MethodPut, "/api/business/invoices/i1",
		validInvoiceBody(time.Now().Add(24*time.Hour)))
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if !strings.Contains(w.Body.String(), "funded") {
		t.Errorf("body %s does not explain the funded conflict", w.Body.String())
	}
}

func TestListInvoices_BadStatusFilter_Returns400(t *testing.T) {
	w := do(newBusinessEngine(&fakeBusinessRepo{}, &fakeInvoiceRepo{}), http.MethodGet,
		"/api/business/invoices?status=bogus", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListInvoices_ReturnsPagination(t *testing.T) {
	businesses := &fakeBusinessRepo{
		findByUserID: func(_ context.Context, _ string) (*domain.Business, error) {
			return ownedBusiness, nil
		},
	}
	invoices := &fakeInvoiceRepo{
		list: func(_ context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, int, error) {
			return []domain.Invoice{{ID: "i1", BusinessID: filter.BusinessID, Status: domain.InvoicePending}}, 23, nil
		},
	}

	w := do(newBusinessEngine(businesses, invoices), http.MethodGet, "/api/business/invoices?page=2&limit=10", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var env struct {
		Pagination struct {
			Page       int `json:"page"`
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Pagination.Page != 2 || env.Pagination.Total != 23 || env.Pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v, want page 2 of 3, total 23", env.Pagination)
	}
}
