package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"laundry/internal/pkg/errs"

	"github.com/go-playground/validator"
)

// RequestValidator checks bound request bodies against their `validate` tags.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Validate implements echo.Validator. Failures come back as ValueIsInvalid or
// ValueIsRequired errors naming the JSON field.
func (v *RequestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}

	errList := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		if fe.Tag() == "required" {
			errList = append(errList, errs.NewValueIsRequiredError(field))
			continue
		}
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(field, describe(fe)))
	}
	return errors.Join(errList...)
}

// fieldPath drops the struct name from a namespace such as
// "createOrderRequest.pickup_window.start_time".
func fieldPath(namespace string) string {
	if _, rest, found := strings.Cut(namespace, "."); found {
		return rest
	}
	return namespace
}

func describe(fe validator.FieldError) error {
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("must be one of %s", fe.Param())
	case "gt":
		return fmt.Errorf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Errorf("must be at least %s", fe.Param())
	case "min":
		return fmt.Errorf("must have at least %s element(s) or characters", fe.Param())
	case "url":
		return errors.New("must be a URL")
	case "uuid4", "uuid":
		return errors.New("must be a UUID")
	case "gtfield":
		return fmt.Errorf("must be after %s", fe.Param())
	default:
		return fmt.Errorf("failed %s validation", fe.Tag())
	}
}
