package access

import (
	"fmt"
	"strings"

	"laundry/internal/pkg/errs"
)

// Role is the caller's role as resolved from the access token.
type Role string

const (
	Admin  Role = "admin"
	Staff  Role = "staff"
	Client Role = "client"
	Driver Role = "driver"
)

// ParseRole accepts the lower case role names carried in tokens.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate rejects anything outside admin, staff, client and driver.
func (r Role) Validate() error {
	switch r {
	case Admin, Staff, Client, Driver:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}
