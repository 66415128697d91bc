// Package validation runs declarative field rules over request payloads and
// aggregates every failure, so one round trip reports all problems at once.
// Rules are expressed as struct tags interpreted by go-playground/validator;
// payload structs are defined once and never mutated by validation.
package validation

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single validation failure tied to one input field.
type FieldError struct {
	Field         string `json:"field"`
	Message       string `json:"message"`
	RejectedValue any    `json:"rejectedValue,omitempty"`
}

// MinimumFields is implemented by partial-update payloads that require at
// least one field to be present. The check runs after all per-field rules.
type MinimumFields interface {
	HasFields() bool
}

var (
	phoneRe  = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,14}$`)
	postalRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 \-]{2,9}$`)
)

const passwordSymbols = `!@#$%^&*()_+-=[]{};':"|,.<>/?`

// Pipeline evaluates payloads against their declared rules. Safe for
// concurrent use; construct once at startup.
type Pipeline struct {
	v *validator.Validate
}

func New() *Pipeline {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	must(v.RegisterValidation("password", validPassword))
	must(v.RegisterValidation("future", validFuture))
	must(v.RegisterValidation("phone", matches(phoneRe)))
	must(v.RegisterValidation("postal", matches(postalRe)))

	return &Pipeline{v: v}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate evaluates every rule on payload and returns the aggregated field
// errors, or nil when the payload is valid. It never short-circuits on the
// first failure.
func (p *Pipeline) Validate(payload any) []FieldError {
	var fieldErrs []FieldError

	if err := p.v.Struct(payload); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			fieldErrs = append(fieldErrs, FieldError{Message: err.Error()})
			return fieldErrs
		}
		for _, fe := range verrs {
			fieldErrs = append(fieldErrs, toFieldError(fe))
		}
	}

	// Schema-level rule, evaluated after per-field rules.
	if mf, ok := payload.(MinimumFields); ok && !mf.HasFields() {
		fieldErrs = append(fieldErrs, FieldError{
			Message: "At least one field must be provided.",
		})
	}

	return fieldErrs
}

func toFieldError(fe validator.FieldError) FieldError {
	out := FieldError{
		Field:   fieldPath(fe),
		Message: message(fe),
	}
	// Secrets are never echoed back.
	if fe.Tag() != "password" {
		out.RejectedValue = fe.Value()
	}
	return out
}

// fieldPath strips the payload type prefix from the namespace so nested
// fields read as "address.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return "The " + field + " field is required."
	case "email":
		return "The " + field + " field must be a valid email address."
	case "min":
		if fe.Kind() == reflect.String {
			return "The " + field + " field must be at least " + fe.Param() + " characters long."
		}
		return "The " + field + " field must be at least " + fe.Param() + "."
	case "max":
		if fe.Kind() == reflect.String {
			return "The " + field + " field may not be longer than " + fe.Param() + " characters."
		}
		return "The " + field + " field may not be greater than " + fe.Param() + "."
	case "gt":
		return "The " + field + " field must be greater than " + fe.Param() + "."
	case "oneof":
		return "The " + field + " field must be one of: " + fe.Param() + "."
	case "password":
		return "The " + field + " field must be 8-128 characters and contain an uppercase letter, a lowercase letter, a digit, and a symbol."
	case "future":
		return "The " + field + " field must be a date in the future."
	case "phone":
		return "The " + field + " field must be a valid phone number."
	case "postal":
		return "The " + field + " field must be a valid postal code."
	default:
		return "The " + field + " field failed the '" + fe.Tag() + "' rule."
	}
}

// validPassword requires 8-128 characters with at least one uppercase
// letter, one lowercase letter, one digit, and one symbol from the fixed set.
func validPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 || len(s) > 128 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// validFuture requires a time.Time strictly after the validation instant.
// The comparison is instant-precise, not floored to the day.
func validFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.After(time.Now())
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}
