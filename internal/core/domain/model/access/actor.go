package access

import (
	"fmt"
	"slices"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
)

// systemUserID attributes work done by the scheduler rather than a person.
var systemUserID, _ = kernel.UUIDFromString("00000000-0000-4000-8000-000000000001")

// Actor is the authenticated caller: who they are and which role they act in.
// Every write operation records the actor in the order status history.
type Actor struct {
	UserID kernel.UUID
	Role   Role
}

// NewActor validates both parts of an identity.
func NewActor(userID kernel.UUID, role Role) (Actor, error) {
	if err := userID.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{UserID: userID, Role: role}, nil
}

// SystemActor is the admin identity used by the overdue sweep job.
func SystemActor() Actor {
	return Actor{UserID: systemUserID, Role: Admin}
}

// Validate checks the actor was built with NewActor or SystemActor.
func (a Actor) Validate() error {
	if err := a.UserID.Validate(); err != nil {
		return err
	}
	return a.Role.Validate()
}

// Is reports whether the actor holds one of roles.
func (a Actor) Is(roles ...Role) bool {
	return slices.Contains(roles, a.Role)
}

// Require returns a ForbiddenError unless the actor holds one of roles.
func (a Actor) Require(roles ...Role) error {
	if a.Is(roles...) {
		return nil
	}
	return errs.NewForbiddenError(fmt.Sprintf("role %s is not allowed to perform this action", a.Role))
}

// Owns reports whether the actor is the user identified by id.
func (a Actor) Owns(id kernel.UUID) bool {
	return a.UserID.IsEqual(id)
}
