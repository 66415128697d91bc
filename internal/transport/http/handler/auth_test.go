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

	"github.com/gin-gonic/gin"

	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/invoiceb2b/financing-api/internal/transport/http/handler"
	"github.com/invoiceb2b/financing-api/internal/transport/http/respond"
	"github.com/invoiceb2b/financing-api/internal/usecase"
	"github.com/invoiceb2b/financing-api/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	register func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	login    func(ctx context.Context, email, password string) (*usecase.Session, error)
	refresh  func(ctx context.Context, raw string) (*usecase.Session, error)
}

func (f *fakeAuthUsecase) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return f.register(ctx, input)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, email, password string) (*usecase.Session, error) {
	return f.login(ctx, email, password)
}

func (f *fakeAuthUsecase) Refresh(ctx context.Context, raw string) (*usecase.Session, error) {
	return f.refresh(ctx, raw)
}

type fakeUserFinder struct {
	findByID func(ctx context.Context, id string) (*domain.User, error)
}

func (f *fakeUserFinder) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return f.findByID(ctx, id)
}

func newTestEngine(uc *fakeAuthUsecase, users *fakeUserFinder) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewAuthHandler(uc, users, validation.New(), respond.New(logger, false), logger)

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/refresh", h.Refresh)
	r.GET("/api/auth/profile", h.Profile)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode"`
	Details    json.RawMessage `json:"details"`
	Data       json.RawMessage `json:"data"`
	Timestamp  string          `json:"timestamp"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, w.Body.String())
	}
	if env.Timestamp == "" {
		t.Error("envelope has no timestamp")
	}
	return env
}

// ---- Register ----

func TestRegister_InvalidJSON_Returns400(t *testing.T) {
	w := postJSON(newTestEngine(&fakeAuthUsecase{}, &fakeUserFinder{}), "/api/auth/register", `{bad json}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_WeakPassword_Returns400WithFieldDetail(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _ usecase.RegisterInput) (*domain.User, error) {
			t.Fatal("usecase must not be reached with an invalid payload")
			return nil, nil
		},
	}

	w := postJSON(newTestEngine(uc, &fakeUserFinder{}), "/api/auth/register",
		`{"email":"a@example.com","password":"short"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	env := decodeEnvelope(t, w)
	if env.Success {
		t.Error("success = true on a validation failure")
	}
	if !strings.Contains(string(env.Details), `"password"`) {
		t.Errorf("details %s do not name the password field", env.Details)
	}
	// The rejected password must not be echoed back.
	if strings.Contains(string(env.Details), "short") {
		t.Errorf("details %s echo the rejected password", env.Details)
	}
}

func TestRegister_Business_Returns201AwaitingApproval(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, input usecase.RegisterInput) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: input.Email, Role: domain.RoleBusiness}, nil
		},
	}

	w := postJSON(newTestEngine(uc, &fakeUserFinder{}), "/api/auth/register",
		`{"email":"a@example.com","password":"Str0ng!pass"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	env := decodeEnvelope(t, w)
	if !strings.Contains(env.Message, "approval") {
		t.Errorf("message = %q, want a mention of admin approval", env.Message)
	}
}

func TestRegister_DuplicateEmail_Returns409(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _ usecase.RegisterInput) (*domain.User, error) {
			return nil, apperror.New(apperror.KindConflict, "Email already registered")
		},
	}

	w := postJSON(newTestEngine(uc, &fakeUserFinder{}), "/api/auth/register",
		`{"email":"dup@example.com","password":"Str0ng!pass"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
	if env := decodeEnvelope(t, w); env.StatusCode != http.StatusConflict {
		t.Errorf("envelope statusCode = %d, want 409", env.StatusCode)
	}
}

// ---- Login ----

func TestLogin_BadCredentials_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (*usecase.Session, error) {
			return nil, apperror.New(apperror.KindAuthentication, "Invalid email or password")
		},
	}

	w := postJSON(newTestEngine(uc, &fakeUserFinder{}), "/api/auth/login",
		`{"email":"a@example.com","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLogin_PendingApproval_Returns403(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (*usecase.Session, error) {
			return nil, apperror.New(apperror.KindAuthorization, "Account awaiting admin approval")
		},
	}

	w := postJSON(newTestEngine(uc, &fakeUserFinder{}), "/api/auth/login",
		`{"email":"a@example.com","password":"Correct1!"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestLogin_Success_ReturnsTokenAndUser(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, email, _ string) (*usecase.Session, error) {
			return &usecase.Session{
				User:  &domain.User{ID: "u1", Email: email, Role: domain.RoleBusiness, IsApproved: true},
				Token: "signed.jwt.here",
			}, nil
		},
	}

	w := postJSON(newTestEngine(uc, &fakeUserFinder{}), "/api/auth/login",
		`{"email":"a@example.com","password":"Correct1!"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	env := decodeEnvelope(t, w)
	if !strings.Contains(string(env.Data), "signed.jwt.here") {
		t.Errorf("data %s does not carry the session token", env.Data)
	}
	if strings.Contains(string(env.Data), "password") {
		t.Errorf("data %s leaks a password field", env.Data)
	}
}

func TestLogin_MissingFields_Returns400(t *testing.T) {
	w := postJSON(newTestEngine(&fakeAuthUsecase{}, &fakeUserFinder{}), "/api/auth/login", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ---- Refresh ----

func TestRefresh_MissingToken_Returns400(t *testing.T) {
	w := postJSON(newTestEngine(&fakeAuthUsecase{}, &fakeUserFinder{}), "/api/auth/refresh", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRefresh_ExpiredToken_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		refresh: func(_ context.Context, _ string) (*usecase.Session, error) {
			return nil, apperror.New(apperror.KindAuthentication, "Invalid or expired token")
		},
	}

	w := postJSON(newTestEngine(uc, &fakeUserFinder{}), "/api/auth/refresh", `{"token":"expired.jwt"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

// ---- Profile ----

// Profile without the auth middleware having run answers 401.
func TestProfile_NoIdentity_Returns401(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	newTestEngine(&fakeAuthUsecase{}, &fakeUserFinder{}).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
