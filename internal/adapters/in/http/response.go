package http

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"laundry/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Error kinds reported in failure envelopes.
const (
	KindNotFound           = "NotFound"
	KindPreconditionFailed = "PreconditionFailed"
	KindForbidden          = "Forbidden"
	KindConflict           = "Conflict"
	KindValidationFailed   = "ValidationFailed"
	KindUnauthenticated    = "Unauthenticated"
	KindInternal           = "Internal"
)

// Envelope is the body of every successful response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func ok(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func fail(c echo.Context, status int, kind, message string) error {
	return c.JSON(status, ErrorEnvelope{Success: false, Kind: kind, Message: message})
}

// classify maps an application error to a status code, kind and client message.
func classify(err error) (int, string, string) {
	var (
		notFound     *errs.ObjectNotFoundError
		precondition *errs.PreconditionFailedError
		forbidden    *errs.ForbiddenError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, KindNotFound, capitalize(notFound.ParamName) + " not found"
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, KindNotFound, "Not found"
	case errors.As(err, &precondition):
		return http.StatusBadRequest, KindPreconditionFailed, capitalize(precondition.Reason)
	case errors.As(err, &forbidden):
		return http.StatusForbidden, KindForbidden, capitalize(forbidden.Reason)
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, KindConflict, err.Error()
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, KindValidationFailed, err.Error()
	default:
		return http.StatusInternalServerError, KindInternal, "Internal server error"
	}
}

// ErrorHandler renders errors escaping the handlers, including echo's own
// routing and binding errors, as failure envelopes.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status        int
			kind, message string
			he            *echo.HTTPError
		)
		if errors.As(err, &he) {
			status, kind, message = fromHTTPError(he)
		} else {
			status, kind, message = classify(err)
		}

		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = fail(c, status, kind, message)
		}
		if err != nil {
			logger.Error().Err(err).Msg("failed to write error response")
		}
	}
}

func fromHTTPError(he *echo.HTTPError) (int, string, string) {
	message := http.StatusText(he.Code)
	if m, isString := he.Message.(string); isString && m != "" {
		message = m
	}

	switch he.Code {
	case http.StatusUnauthorized:
		return he.Code, KindUnauthenticated, message
	case http.StatusForbidden:
		return he.Code, KindForbidden, message
	case http.StatusNotFound:
		return he.Code, KindNotFound, message
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return he.Code, KindValidationFailed, message
	}
	if he.Code >= http.StatusInternalServerError {
		return he.Code, KindInternal, "Internal server error"
	}
	return he.Code, KindValidationFailed, message
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
