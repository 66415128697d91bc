// Package token encodes and decodes the signed session tokens that carry an
// authenticated identity between requests. The codec is pure: no I/O, no
// state beyond the signing configuration loaded at startup.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/invoiceb2b/financing-api/internal/domain"
)

// DecodeFailure classifies why a presented token was rejected. The transport
// layer collapses all of these into a uniform 401; the distinction exists for
// server-side logs.
type DecodeFailure int

const (
	FailureMalformed DecodeFailure = iota
	FailureSignatureInvalid
	FailureExpired
	FailureIssuerMismatch
	FailureAudienceMismatch
)

func (f DecodeFailure) String() string {
	switch f {
	case FailureMalformed:
		return "malformed"
	case FailureSignatureInvalid:
		return "signature_invalid"
	case FailureExpired:
		return "expired"
	case FailureIssuerMismatch:
		return "issuer_mismatch"
	default:
		return "audience_mismatch"
	}
}

// DecodeError pairs a failure kind with the underlying parser error.
type DecodeError struct {
	Failure DecodeFailure
	cause   error
}

func (e *DecodeError) Error() string {
	return "decode token: " + e.Failure.String() + ": " + e.cause.Error()
}

func (e *DecodeError) Unwrap() error { return e.cause }

// Claims is the payload of a session token: identity claims plus the
// registered set (iss, aud, iat, exp).
type Claims struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity rebuilds the principal the token was minted for.
func (c *Claims) Identity() domain.Identity {
	id := domain.Identity{ID: c.ID, Email: c.Email, Role: c.Role}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	return id
}

// Codec signs and verifies HS256 session tokens against a single
// process-wide secret. Rotating the secret invalidates every outstanding
// token.
type Codec struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
	parser   *jwt.Parser
}

func NewCodec(secret []byte, ttl time.Duration, issuer, audience string) *Codec {
	return &Codec{
		secret:   secret,
		ttl:      ttl,
		issuer:   issuer,
		audience: audience,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(audience),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// TTL is the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Encode mints a signed token for the identity. iat is now, exp is now+TTL;
// identical inputs and timestamp yield an identical token.
func (c *Codec) Encode(id domain.Identity, now time.Time) (string, error) {
	claims := Claims{
		ID:    id.ID,
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Decode verifies a presented token and returns its claims. The signature is
// checked before any claim is inspected, so a forged token never has its
// expiry or issuer evaluated. On failure the error is always a *DecodeError.
func (c *Codec) Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := c.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, &DecodeError{Failure: classify(err), cause: err}
	}
	return claims, nil
}

func classify(err error) DecodeFailure {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return FailureSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return FailureExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return FailureIssuerMismatch
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return FailureAudienceMismatch
	default:
		return FailureMalformed
	}
}
