package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrValueIsInvalid     = errors.New("value is invalid")
	ErrValueIsOutOfRange  = errors.New("value is out of range")
	ErrValueIsRequired    = errors.New("value is required")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
)

// ObjectNotFoundError reports a missing aggregate looked up by ID.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
	}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
		Cause:     cause,
	}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a value that failed a domain rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
	}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
		Cause:     cause,
	}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitizeValue(e.Value), e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// PreconditionFailedError reports an operation attempted from the wrong state.
// Reason is user facing, e.g. "order is not in transit".
type PreconditionFailedError struct {
	Reason string
	Cause  error
}

func NewPreconditionFailedError(reason string) *PreconditionFailedError {
	return &PreconditionFailedError{Reason: reason}
}

func NewPreconditionFailedErrorWithCause(reason string, cause error) *PreconditionFailedError {
	return &PreconditionFailedError{
		Reason: reason,
		Cause:  cause,
	}
}

func (e *PreconditionFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrPreconditionFailed, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrPreconditionFailed, e.Reason)
}

func (e *PreconditionFailedError) Unwrap() error {
	return ErrPreconditionFailed
}

// ForbiddenError reports a role or ownership mismatch.
type ForbiddenError struct {
	Reason string
}

func NewForbiddenError(reason string) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s", ErrForbidden, e.Reason)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// ConflictError reports a duplicate value for a unique field.
type ConflictError struct {
	ParamName string
	Value     any
	Cause     error
}

func NewConflictError(paramName string, value any) *ConflictError {
	return &ConflictError{
		ParamName: paramName,
		Value:     value,
	}
}

func NewConflictErrorWithCause(paramName string, value any, cause error) *ConflictError {
	return &ConflictError{
		ParamName: paramName,
		Value:     value,
		Cause:     cause,
	}
}

func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("%s: %s %s already exists", ErrConflict, e.ParamName, sanitizeValue(e.Value))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%s", v), "\n", " ")
}

func sanitizeValue(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}
