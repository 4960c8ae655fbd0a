package route

import (
	"errors"
	"slices"
	"strings"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var (
	// ErrRouteIsNotConstructed is returned when a Route was not created through NewRoute or RestoreRoute.
	ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute constructor")
)

// Route groups the orders one driver handles on one day in one area.
// It holds order IDs only; the orders themselves are changed by the
// route assigner when the route is created or re-planned.
type Route struct {
	id        kernel.UUID
	date      time.Time
	driver    kernel.UUID
	area      string
	orders    []kernel.UUID
	status    Status
	createdAt time.Time
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

// NewRoute creates a planned route. Duplicate order IDs are collapsed, keeping the first occurrence.
func NewRoute(id kernel.UUID, date time.Time, driver kernel.UUID, area string, orders []kernel.UUID, now time.Time) (*Route, error) {
	r := &Route{
		status:    Planned,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setDate(date),
		r.setDriver(driver),
		r.setArea(area),
		r.setOrders(orders),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRoute rebuilds a route loaded from storage.
func RestoreRoute(
	id kernel.UUID,
	date time.Time,
	driver kernel.UUID,
	area string,
	orders []kernel.UUID,
	status Status,
	createdAt, updatedAt time.Time,
) (*Route, error) {
	r := &Route{
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setDate(date),
		r.setDriver(driver),
		r.setArea(area),
		r.setOrders(orders),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	r.status = status

	return r, nil
}

// Validate ensures the route was built by NewRoute or RestoreRoute.
func (r *Route) Validate() error {
	if r == nil {
		return ErrRouteIsNotConstructed
	}
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

func (r *Route) ID() kernel.UUID       { return r.id }
func (r *Route) Date() time.Time       { return r.date }
func (r *Route) Driver() kernel.UUID   { return r.driver }
func (r *Route) Area() string          { return r.area }
func (r *Route) Orders() []kernel.UUID { return slices.Clone(r.orders) }
func (r *Route) Status() Status        { return r.status }
func (r *Route) CreatedAt() time.Time  { return r.createdAt }
func (r *Route) UpdatedAt() time.Time  { return r.updatedAt }

// Patch is a field edit of a route. Nil fields are left untouched.
type Patch struct {
	Date   *time.Time
	Driver *kernel.UUID
	Area   *string
	Orders []kernel.UUID
	Status *Status
}

// Edit applies a patch and reports whether the driver or the order list
// changed, in which case the orders must be assigned again.
func (r *Route) Edit(p Patch, now time.Time) (bool, error) {
	edited := *r
	var errList []error
	if p.Date != nil {
		errList = append(errList, edited.setDate(*p.Date))
	}
	if p.Driver != nil {
		errList = append(errList, edited.setDriver(*p.Driver))
	}
	if p.Area != nil {
		errList = append(errList, edited.setArea(*p.Area))
	}
	if p.Orders != nil {
		errList = append(errList, edited.setOrders(p.Orders))
	}
	if p.Status != nil {
		if err := p.Status.Validate(); err != nil {
			errList = append(errList, err)
		} else {
			edited.status = *p.Status
		}
	}
	if err := errors.Join(errList...); err != nil {
		return false, err
	}

	reassign := !edited.driver.IsEqual(r.driver) || !slices.Equal(edited.orders, r.orders)
	edited.updatedAt = now
	*r = edited
	return reassign, nil
}

// SetStatus sets any valid status, with no ordering between them.
func (r *Route) SetStatus(s Status, now time.Time) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.status = s
	r.updatedAt = now
	return nil
}

// EnsureDeletable fails unless the route is still planned.
func (r *Route) EnsureDeletable() error {
	if r.status != Planned {
		return errs.NewPreconditionFailedError("only planned routes can be deleted")
	}
	return nil
}

// AssignedTo reports whether driver runs this route.
func (r *Route) AssignedTo(driver kernel.UUID) bool {
	return r.driver.IsEqual(driver)
}

func (r *Route) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Route) setDate(d time.Time) error {
	if d.IsZero() {
		return errs.NewValueIsRequiredError("route_date")
	}
	r.date = d
	return nil
}

func (r *Route) setDriver(driver kernel.UUID) error {
	if err := driver.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("driver", err)
	}
	r.driver = driver
	return nil
}

func (r *Route) setArea(area string) error {
	area = strings.TrimSpace(area)
	if area == "" {
		return errs.NewValueIsRequiredError("area")
	}
	r.area = area
	return nil
}

func (r *Route) setOrders(orders []kernel.UUID) error {
	unique := make([]kernel.UUID, 0, len(orders))
	for _, id := range orders {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("orders", err)
		}
		if !slices.ContainsFunc(unique, id.IsEqual) {
			unique = append(unique, id)
		}
	}
	r.orders = unique
	return nil
}
