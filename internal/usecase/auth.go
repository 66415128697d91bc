package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/invoiceb2b/financing-api/internal/email"
	"github.com/invoiceb2b/financing-api/internal/metrics"
	"github.com/invoiceb2b/financing-api/internal/repository"
	"github.com/invoiceb2b/financing-api/internal/token"
)

// AuthUsecase is the authenticator: the only producer of domain.Identity
// values and session tokens. It reads the credential store and never writes
// to it, except for Register which creates the credential itself.
type AuthUsecase struct {
	users      repository.UserRepository
	businesses repository.BusinessRepository
	codec      *token.Codec
	email      email.Sender
	logger     *slog.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	businesses repository.BusinessRepository,
	codec *token.Codec,
	sender email.Sender,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:      users,
		businesses: businesses,
		codec:      codec,
		email:      sender,
		logger:     logger.With("component", "auth_usecase"),
	}
}

// Session is the result of a successful login or refresh.
type Session struct {
	User  *domain.User
	Token string
}

type RegisterInput struct {
	Email    string
	Password string
	Role     domain.Role
}

// Register creates a credential record. Admin accounts are approved at
// creation; business accounts stay pending until an admin approves them and
// also get an empty business profile row.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Role == "" {
		input.Role = domain.RoleBusiness
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	emailAddr := normalizeEmail(input.Email)
	user, err := u.users.Create(ctx, emailAddr, string(hash), input.Role, input.Role == domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, apperror.New(apperror.KindConflict, "Email already registered")
		}
		return nil, apperror.Internal(fmt.Errorf("create user: %w", err))
	}

	if user.Role == domain.RoleBusiness {
		if _, err := u.businesses.CreateEmpty(ctx, user.ID); err != nil {
			return nil, apperror.Internal(fmt.Errorf("create business profile: %w", err))
		}
		u.notify(ctx, user.Email, "Registration received",
			"<p>Your account was created and is awaiting admin approval. We will let you know once it has been reviewed.</p>")
	}

	return user, nil
}

// Login verifies a credential pair and mints a session token. Absent email
// and wrong password produce the same failure so accounts cannot be
// enumerated; the pending-approval outcome is only reachable with a correct
// password.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (*Session, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, apperror.New(apperror.KindAuthentication, "Invalid email or password")
		}
		return nil, apperror.Internal(fmt.Errorf("find user: %w", err))
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, apperror.New(apperror.KindAuthentication, "Invalid email or password")
	}

	// Checked only after the password verified, so this outcome cannot be
	// used to probe for pending accounts.
	if user.Role == domain.RoleBusiness && !user.IsApproved {
		metrics.LoginsTotal.WithLabelValues("pending_approval").Inc()
		return nil, apperror.New(apperror.KindAuthorization, "Account awaiting admin approval")
	}

	session, err := u.mint(user)
	if err != nil {
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return session, nil
}

// Verify validates a presented token and yields the identity it carries.
// Every decode failure maps to the same client-facing outcome; the precise
// kind is logged server-side only.
func (u *AuthUsecase) Verify(ctx context.Context, raw string) (domain.Identity, error) {
	claims, err := u.codec.Decode(raw)
	if err != nil {
		var de *token.DecodeError
		if errors.As(err, &de) {
			u.logger.WarnContext(ctx, "token rejected", "reason", de.Failure.String())
		}
		return domain.Identity{}, apperror.Wrap(apperror.KindAuthentication, "Invalid or expired token", err)
	}
	return claims.Identity(), nil
}

// Refresh exchanges a still-valid token for a fresh one. Expiry is enforced:
// an expired token cannot be extended, bounding the lifetime of a leaked
// token. The credential record is re-fetched so role and approval changes
// since issuance are honored.
func (u *AuthUsecase) Refresh(ctx context.Context, raw string) (*Session, error) {
	claims, err := u.codec.Decode(raw)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindAuthentication, "Invalid or expired token", err)
	}

	user, err := u.users.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, apperror.New(apperror.KindAuthentication, "Invalid or expired token")
		}
		return nil, apperror.Internal(fmt.Errorf("find user: %w", err))
	}

	if user.Role == domain.RoleBusiness && !user.IsApproved {
		return nil, apperror.New(apperror.KindAuthorization, "Account awaiting admin approval")
	}

	return u.mint(user)
}

func (u *AuthUsecase) mint(user *domain.User) (*Session, error) {
	now := time.Now()
	identity := domain.Identity{
		ID:       user.ID,
		Email:    user.Email,
		Role:     user.Role,
		IssuedAt: now,
	}
	signed, err := u.codec.Encode(identity, now)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("sign token: %w", err))
	}
	metrics.TokensIssuedTotal.Inc()
	return &Session{User: user, Token: signed}, nil
}

func (u *AuthUsecase) notify(ctx context.Context, to, subject, body string) {
	if err := u.email.Send(ctx, to, subject, body); err != nil {
		u.logger.ErrorContext(ctx, "send notification email", "to", to, "error", err)
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
