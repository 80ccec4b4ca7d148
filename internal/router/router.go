package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/otel"

	"financetracker/internal/auth"
	"financetracker/internal/config"
	apperrors "financetracker/internal/errors"
	"financetracker/internal/handler"
	"financetracker/internal/telemetry"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	guard *auth.Guard,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	transactionHandler *handler.TransactionHandler,
	healthHandler *handler.HealthHandler,
) {
	e.HTTPErrorHandler = errorHandler(e, logger)
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(telemetry.Middleware(otel.GetTracerProvider()))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}))

	e.GET("/healthz", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/users/register", authHandler.Register)
	api.POST("/users/login", authHandler.Login)
	api.POST("/users/logout", authHandler.Logout, identify(guard, true))
	// Listing users stays public.
	api.GET("/users", userHandler.ListUsers)

	// Secured routes (require a valid bearer token)
	secured := api.Group("", identify(guard, false))

	secured.GET("/me", userHandler.Me)

	secured.GET("/users/:id", userHandler.GetUser)
	secured.PUT("/users/:id", userHandler.UpdateUser)
	secured.DELETE("/users/:id", userHandler.DeleteUser)

	secured.POST("/categories", categoryHandler.Create)
	secured.GET("/categories", categoryHandler.List)
	secured.GET("/categories/:id", categoryHandler.Get)
	secured.PUT("/categories/:id", categoryHandler.Update)
	secured.DELETE("/categories/:id", categoryHandler.Delete)

	secured.POST("/transactions", transactionHandler.Create)
	secured.GET("/transactions", transactionHandler.List)
	secured.GET("/transactions/:id", transactionHandler.Get)
	secured.PUT("/transactions/:id", transactionHandler.Update)
	secured.DELETE("/transactions/:id", transactionHandler.Delete)
}

// identify resolves the bearer token into an *auth.Identity stored under
// handler.IdentityContextKey. When optional is set, requests without a
// usable token continue anonymously instead of failing with 401.
func identify(guard *auth.Guard, optional bool) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  handler.IdentityContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			identity, err := guard.AuthenticateToken(c.Request().Context(), token)
			if err != nil {
				return nil, err
			}
			return identity, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var parseErr *echojwt.TokenParsingError
			if !errors.As(err, &parseErr) {
				if optional {
					return nil
				}
				return apperrors.ErrMissingToken
			}
			if optional && errors.Is(parseErr.Err, apperrors.ErrUnauthenticated) {
				return nil
			}
			return parseErr.Err
		},
		ContinueOnIgnoredError: optional,
	})
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			switch {
			case v.Status >= http.StatusInternalServerError:
				level = slog.LevelError
			case v.Status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("request_id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
