package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/invoiceb2b/financing-api/internal/apperror"
)

func TestKindStatus(t *testing.T) {
	cases := []struct {
		kind apperror.Kind
		want int
	}{
		{apperror.KindValidation, http.StatusBadRequest},
		{apperror.KindAuthentication, http.StatusUnauthorized},
		{apperror.KindAuthorization, http.StatusForbidden},
		{apperror.KindNotFound, http.StatusNotFound},
		{apperror.KindConflict, http.StatusConflict},
		{apperror.KindRateLimit, http.StatusTooManyRequests},
		{apperror.KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.kind.Status(); got != tc.want {
			t.Errorf("%v.Status() = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestWrap_PreservesCauseChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperror.Wrap(apperror.KindAuthentication, "Invalid or expired token", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause is not reachable via errors.Is")
	}
}

func TestFrom_PassesThroughTaggedErrors(t *testing.T) {
	orig := apperror.New(apperror.KindNotFound, "Invoice not found")

	got := apperror.From(fmt.Errorf("outer: %w", orig))
	if got != orig {
		t.Errorf("From returned %v, want the original tagged error", got)
	}
}

func TestFrom_UnknownError_BecomesGenericInternal(t *testing.T) {
	cause := errors.New("pq: relation does not exist")

	got := apperror.From(cause)
	if got.Kind != apperror.KindInternal {
		t.Errorf("kind = %v, want internal", got.Kind)
	}
	// The client-facing message must not contain the raw cause text.
	if got.Message == cause.Error() {
		t.Error("internal message leaks the underlying error text")
	}
	if !errors.Is(got, cause) {
		t.Error("cause is not preserved for server-side logs")
	}
}

func TestValidation_CarriesDetails(t *testing.T) {
	details := []string{"email is required"}
	err := apperror.Validation(details)

	if err.Kind != apperror.KindValidation {
		t.Errorf("kind = %v, want validation", err.Kind)
	}
	if err.Details == nil {
		t.Error("details were dropped")
	}
}
