package http

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// pathID binds the simple-style {id} path parameter.
func pathID(c echo.Context) (kernel.UUID, error) {
	var raw string
	if err := runtime.BindStyledParameterWithLocation("simple", false, "id", runtime.ParamLocationPath, c.Param("id"), &raw); err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return id, nil
}

// queryString binds an optional form-style query parameter.
func queryString(c echo.Context, name string) (*string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &v); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	if v != nil && *v == "" {
		return nil, nil
	}
	return v, nil
}

// queryTime binds an optional RFC 3339 date-time query parameter.
func queryTime(c echo.Context, name string) (*time.Time, error) {
	var v *time.Time
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &v); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return v, nil
}

// queryUUID binds an optional id query parameter.
func queryUUID(c echo.Context, name string) (*kernel.UUID, error) {
	raw, err := queryString(c, name)
	if err != nil || raw == nil {
		return nil, err
	}
	id, err := kernel.UUIDFromString(*raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return &id, nil
}
