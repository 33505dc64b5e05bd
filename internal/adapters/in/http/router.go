package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"iskxpress/internal/api/servers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/swaggo/swag"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// BaseURL prefixes every API route.
const BaseURL = "/api/v1"

// RouterConfig carries what the router needs beyond the server itself.
type RouterConfig struct {
	JWTSecret []byte
	Logger    *slog.Logger
}

// NewRouter builds the echo instance: health and Swagger UI at the root, the
// authenticated and OpenAPI-validated API under BaseURL.
func NewRouter(server *Server, cfg RouterConfig) (*echo.Echo, error) {
	swagger, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	if err := registerSwaggerDoc(); err != nil {
		return nil, err
	}
	requestValidator, err := OpenAPIRequestValidator(swagger, BaseURL)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = NewErrorHandler(cfg.Logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			cfg.Logger.LogAttrs(context.Background(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.Any("error", v.Error),
			)
			return nil
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(BaseURL, JWTAuth(cfg.JWTSecret), requestValidator)
	servers.RegisterHandlers(api, server)

	return e, nil
}

type swaggerDoc struct {
	json string
}

func (d swaggerDoc) ReadDoc() string {
	return d.json
}

var (
	swagOnce sync.Once
	swagErr  error
)

// registerSwaggerDoc hands the OpenAPI document to swag so that echo-swagger can
// serve it as doc.json.
func registerSwaggerDoc() error {
	swagOnce.Do(func() {
		swagger, err := servers.GetSwagger()
		if err != nil {
			swagErr = err
			return
		}
		raw, err := swagger.MarshalJSON()
		if err != nil {
			swagErr = fmt.Errorf("marshal openapi document: %w", err)
			return
		}
		swag.Register(swag.Name, swaggerDoc{json: string(raw)})
	})
	return swagErr
}
