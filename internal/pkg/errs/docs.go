// Package errs provides the error kinds shared by the laundry backend.
//
// Every kind follows the same shape:
//   - a sentinel error variable (e.g. ErrPreconditionFailed) used with errors.Is
//   - a struct carrying the details
//   - constructors with and without a cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The HTTP adapter maps sentinels to status codes: ErrObjectNotFound to 404,
// ErrForbidden to 403, ErrConflict to 409 and the validation and precondition
// kinds to 400.
package errs
