package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/invoiceb2b/financing-api/internal/transport/http/middleware"
	"github.com/invoiceb2b/financing-api/internal/transport/http/respond"
	"github.com/invoiceb2b/financing-api/internal/usecase"
	"github.com/invoiceb2b/financing-api/internal/validation"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*usecase.Session, error)
	Refresh(ctx context.Context, raw string) (*usecase.Session, error)
}

// userFinder backs the profile endpoint.
type userFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type AuthHandler struct {
	uc       authUsecaser
	users    userFinder
	validate *validation.Pipeline
	rsp      *respond.Responder
	logger   *slog.Logger
}

func NewAuthHandler(uc authUsecaser, users userFinder, validate *validation.Pipeline, rsp *respond.Responder, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:       uc,
		users:    users,
		validate: validate,
		rsp:      rsp,
		logger:   logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Email    string      `json:"email"    validate:"required,email"`
	Password string      `json:"password" validate:"required,password"`
	Role     domain.Role `json:"role"     validate:"omitempty,oneof=business admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Token string `json:"token" validate:"required"`
}

type userResponse struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	IsApproved bool        `json:"is_approved"`
	CreatedAt  time.Time   `json:"created_at"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Role:       u.Role,
		IsApproved: u.IsApproved,
		CreatedAt:  u.CreatedAt,
	}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rsp.Error(c, apperror.New(apperror.KindValidation, "Invalid request body"))
		return
	}
	if fieldErrs := h.validate.Validate(&req); fieldErrs != nil {
		h.rsp.Error(c, apperror.Validation(fieldErrs))
		return
	}

	user, err := h.uc.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.rsp.Error(c, err)
		return
	}

	message := "User registered successfully."
	if user.Role == domain.RoleBusiness {
		message = "User registered successfully. Awaiting admin approval."
	}
	h.rsp.OK(c, http.StatusCreated, message, toUserResponse(user))
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rsp.Error(c, apperror.New(apperror.KindValidation, "Invalid request body"))
		return
	}
	if fieldErrs := h.validate.Validate(&req); fieldErrs != nil {
		h.rsp.Error(c, apperror.Validation(fieldErrs))
		return
	}

	session, err := h.uc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.rsp.Error(c, err)
		return
	}

	h.rsp.OK(c, http.StatusOK, "Login successful", sessionResponse{
		Token: session.Token,
		User:  toUserResponse(session.User),
	})
}

// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rsp.Error(c, apperror.New(apperror.KindValidation, "Invalid request body"))
		return
	}
	if fieldErrs := h.validate.Validate(&req); fieldErrs != nil {
		h.rsp.Error(c, apperror.Validation(fieldErrs))
		return
	}

	session, err := h.uc.Refresh(c.Request.Context(), req.Token)
	if err != nil {
		h.rsp.Error(c, err)
		return
	}

	h.rsp.OK(c, http.StatusOK, "Token refreshed", sessionResponse{
		Token: session.Token,
		User:  toUserResponse(session.User),
	})
}

// GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		h.rsp.Error(c, apperror.New(apperror.KindAuthentication, "Invalid or expired token"))
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.rsp.Error(c, apperror.New(apperror.KindNotFound, "User not found"))
			return
		}
		h.rsp.Error(c, apperror.Internal(err))
		return
	}

	h.rsp.OK(c, http.StatusOK, "Profile retrieved successfully", toUserResponse(user))
}
