package http

import (
	"errors"
	"fmt"

	"iskxpress/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
)

// OpenAPIRequestValidator checks every request against the OpenAPI document before it
// reaches a handler. Paths in the document are relative to baseURL. Authentication is
// left to JWTAuth.
func OpenAPIRequestValidator(swagger *openapi3.T, baseURL string) (echo.MiddlewareFunc, error) {
	doc := *swagger
	doc.Servers = nil
	doc.Paths = openapi3.NewPaths()
	for path, item := range swagger.Paths.Map() {
		doc.Paths.Set(baseURL+path, item)
	}

	router, err := legacy.NewRouter(&doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
					return next(ctx)
				}
				return errs.NewValueIsInvalidErrorWithCause("request", err)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return errs.NewValueIsInvalidErrorWithCause("request", err)
			}
			return next(ctx)
		}
	}, nil
}
