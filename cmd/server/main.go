package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/invoiceb2b/financing-api/config"
	"github.com/invoiceb2b/financing-api/internal/email"
	"github.com/invoiceb2b/financing-api/internal/health"
	"github.com/invoiceb2b/financing-api/internal/infrastructure/postgres"
	ctxlog "github.com/invoiceb2b/financing-api/internal/log"
	"github.com/invoiceb2b/financing-api/internal/metrics"
	"github.com/invoiceb2b/financing-api/internal/overdue"
	"github.com/invoiceb2b/financing-api/internal/ratelimit"
	"github.com/invoiceb2b/financing-api/internal/token"
	httptransport "github.com/invoiceb2b/financing-api/internal/transport/http"
	"github.com/invoiceb2b/financing-api/internal/transport/http/handler"
	"github.com/invoiceb2b/financing-api/internal/transport/http/respond"
	"github.com/invoiceb2b/financing-api/internal/usecase"
	"github.com/invoiceb2b/financing-api/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	businessRepo := postgres.NewBusinessRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)

	codec := token.NewCodec([]byte(cfg.JWTSecret), cfg.TokenTTL(), cfg.JWTIssuer, cfg.JWTAudience)
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	validate := validation.New()
	rsp := respond.New(logger, cfg.Production())

	authUsecase := usecase.NewAuthUsecase(userRepo, businessRepo, codec, sender, logger)
	businessUsecase := usecase.NewBusinessUsecase(businessRepo, invoiceRepo)
	adminUsecase := usecase.NewAdminUsecase(businessRepo, userRepo, sender, logger)

	authHandler := handler.NewAuthHandler(authUsecase, userRepo, validate, rsp, logger)
	businessHandler := handler.NewBusinessHandler(businessUsecase, validate, rsp, logger)
	adminHandler := handler.NewAdminHandler(adminUsecase, validate, rsp, logger)

	var loginLimiter ratelimit.Limiter = ratelimit.Unlimited{}
	var redisPinger health.Pinger
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		loginLimiter = ratelimit.NewRedisLimiter(redisClient, cfg.LoginRateLimit, cfg.LoginRateWindow())
		redisPinger = health.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	metrics.Register()
	checker := health.NewChecker(pool, redisPinger, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, rsp, authUsecase, loginLimiter, authHandler, businessHandler, adminHandler),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	sweeper := overdue.NewSweeper(invoiceRepo, logger, cfg.OverdueCron)
	go func() {
		if err := sweeper.Start(ctx); err != nil {
			logger.Error("overdue sweeper", "error", err)
		}
	}()

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
