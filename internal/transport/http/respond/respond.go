// Package respond renders the platform's uniform JSON envelopes. Every
// failure is converted to a response here and nowhere else.
package respond

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/invoiceb2b/financing-api/internal/apperror"
	"github.com/invoiceb2b/financing-api/internal/domain"
)

// Responder writes success and error envelopes. In production mode internal
// failure details never reach the client.
type Responder struct {
	logger     *slog.Logger
	production bool
}

func New(logger *slog.Logger, production bool) *Responder {
	return &Responder{logger: logger.With("component", "responder"), production: production}
}

type successEnvelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       any         `json:"data,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
	Timestamp  string      `json:"timestamp"`
}

type errorEnvelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Details    any    `json:"details,omitempty"`
	Timestamp  string `json:"timestamp"`
}

type pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// OK writes a success envelope.
func (r *Responder) OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, successEnvelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: now(),
	})
}

// List writes a success envelope with pagination.
func (r *Responder) List(c *gin.Context, message string, data any, page domain.Page) {
	c.JSON(200, successEnvelope{
		Success: true,
		Message: message,
		Data:    data,
		Pagination: &pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
			HasNext:    page.HasNext(),
			HasPrev:    page.HasPrev(),
		},
		Timestamp: now(),
	})
}

// Error maps any failure to its envelope and aborts the request. Unknown
// errors become internal; internal causes are logged with full detail but
// answered generically in production.
func (r *Responder) Error(c *gin.Context, err error) {
	ae := apperror.From(err)

	if ae.Kind == apperror.KindInternal {
		r.logger.ErrorContext(c.Request.Context(), "internal error",
			"error", err, "method", c.Request.Method, "path", c.FullPath())
	}

	env := errorEnvelope{
		Success:    false,
		Message:    ae.Message,
		StatusCode: ae.Status(),
		Timestamp:  now(),
	}
	switch {
	case ae.Kind == apperror.KindValidation:
		env.Details = ae.Details
	case ae.Kind == apperror.KindInternal && !r.production:
		env.Details = gin.H{"error": ae.Error()}
	}

	c.AbortWithStatusJSON(ae.Status(), env)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
