package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"financetracker/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"financetracker/internal/auth"
	"financetracker/internal/cache"
	"financetracker/internal/config"
	"financetracker/internal/db"
	"financetracker/internal/handler"
	"financetracker/internal/logging"
	"financetracker/internal/repository"
	"financetracker/internal/router"
	"financetracker/internal/service"
	"financetracker/internal/telemetry"
)

const serviceName = "finance-tracker"

// @title Finance Tracker API
// @version 1.0
// @description Personal finance tracker with users, categories, transactions and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	gormDB, err := db.Open(cfg)
	if err != nil {
		return err
	}

	// Drop tables if RESET_DB is set
	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	logger.Info("database ready", slog.String("driver", cfg.DBDriver))

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	var revoked auth.RevocationList
	if cacheClient.Enabled() {
		if err := cacheClient.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, logout revocation will fail open", slog.Any("error", err))
		}
		revoked = auth.NewRevocationList(cacheClient)
	}

	// Initialize auth components
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.TokenTTL,
		Issuer: cfg.JWTIssuer,
	})
	if err != nil {
		return err
	}
	hasher, err := auth.NewPasswordHasher(cfg.PasswordHasher)
	if err != nil {
		return err
	}
	guard := auth.NewGuard(tokens, repository.NewIdentityStore(gormDB), revoked)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	transactionRepo := repository.NewTransactionRepository(gormDB)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, tokens, guard)
	userService := service.NewUserService(userRepo, hasher, guard)
	categoryService := service.NewCategoryService(categoryRepo)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, guard)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Register routes
	router.Register(
		e,
		cfg,
		logger,
		guard,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewCategoryHandler(categoryService),
		handler.NewTransactionHandler(transactionService),
		handler.NewHealthHandler(gormDB, cacheClient),
	)

	logger.Info("swagger documentation available", slog.String("url", swaggerURL(cfg)))

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", addr), slog.Bool("token_revocation", guard.RevocationEnabled()))
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// swaggerURL points the generated docs at SWAGGER_HOST when set and returns
// the UI address to log.
func swaggerURL(cfg *config.Config) string {
	if cfg.SwaggerHost == "" {
		return "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	}
	host := cfg.SwaggerHost
	scheme := "http://"
	for _, prefix := range []string{"http://", "https://"} {
		if strings.HasPrefix(host, prefix) {
			scheme = prefix
			host = strings.TrimPrefix(host, prefix)
		}
	}
	docs.SwaggerInfo.Host = host
	docs.SwaggerInfo.Schemes = []string{strings.TrimSuffix(scheme, "://")}
	return scheme + host + "/swagger/index.html"
}
