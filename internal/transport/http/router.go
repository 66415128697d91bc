package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/invoiceb2b/financing-api/internal/domain"
	"github.com/invoiceb2b/financing-api/internal/ratelimit"
	"github.com/invoiceb2b/financing-api/internal/transport/http/handler"
	"github.com/invoiceb2b/financing-api/internal/transport/http/middleware"
	"github.com/invoiceb2b/financing-api/internal/transport/http/respond"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	rsp *respond.Responder,
	verifier middleware.Verifier,
	loginLimiter ratelimit.Limiter,
	authHandler *handler.AuthHandler,
	businessHandler *handler.BusinessHandler,
	adminHandler *handler.AdminHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(verifier, rsp)

	auth := r.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", middleware.RateLimit(loginLimiter, rsp, logger), authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/profile", authMW, authHandler.Profile)

	business := r.Group("/api/business", authMW, middleware.RequireRole(rsp, domain.RoleBusiness))
	business.GET("/profile", businessHandler.GetProfile)
	business.PUT("/profile", businessHandler.UpdateProfile)
	business.GET("/invoices", businessHandler.ListInvoices)
	business.POST("/invoices", businessHandler.CreateInvoice)
	business.PUT("/invoices/:id", businessHandler.UpdateInvoice)

	admin := r.Group("/api/admin", authMW, middleware.RequireRole(rsp, domain.RoleAdmin))
	admin.GET("/businesses", adminHandler.ListBusinesses)
	admin.PUT("/businesses/:id/status", adminHandler.UpdateBusinessStatus)
	admin.GET("/dashboard-summary", adminHandler.Dashboard)

	return r
}
