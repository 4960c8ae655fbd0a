package route_test

import (
	"testing"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now  = time.Date(2025, 5, 2, 7, 0, 0, 0, time.UTC)
	date = time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
)

func TestNewRoute(t *testing.T) {
	t.Run("should create a planned route", func(t *testing.T) {
		a, b := kernel.NewUUID(), kernel.NewUUID()
		driver := kernel.NewUUID()

		r, err := route.NewRoute(kernel.NewUUID(), date, driver, " North ", []kernel.UUID{a, b, a}, now)

		require.NoError(t, err)
		require.NoError(t, r.Validate())
		assert.Equal(t, route.Planned, r.Status())
		assert.Equal(t, "North", r.Area())
		assert.Equal(t, []kernel.UUID{a, b}, r.Orders())
		assert.True(t, r.AssignedTo(driver))
	})

	t.Run("should allow an empty order list", func(t *testing.T) {
		r, err := route.NewRoute(kernel.NewUUID(), date, kernel.NewUUID(), "South", nil, now)

		require.NoError(t, err)
		assert.Empty(t, r.Orders())
	})

	t.Run("should join validation errors", func(t *testing.T) {
		_, err := route.NewRoute(kernel.NewUUID(), time.Time{}, kernel.UUID{}, "", nil, now)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "route_date")
		assert.Contains(t, err.Error(), "driver")
		assert.Contains(t, err.Error(), "area")
	})
}

func TestRoute_Edit(t *testing.T) {
	newRoute := func(t *testing.T, orders ...kernel.UUID) *route.Route {
		t.Helper()
		r, err := route.NewRoute(kernel.NewUUID(), date, kernel.NewUUID(), "North", orders, now)
		require.NoError(t, err)
		return r
	}

	t.Run("area change does not need reassignment", func(t *testing.T) {
		r := newRoute(t, kernel.NewUUID())
		area := "East"

		reassign, err := r.Edit(route.Patch{Area: &area}, now.Add(time.Hour))

		require.NoError(t, err)
		assert.False(t, reassign)
		assert.Equal(t, "East", r.Area())
		assert.Equal(t, now.Add(time.Hour), r.UpdatedAt())
	})

	t.Run("driver change needs reassignment", func(t *testing.T) {
		r := newRoute(t, kernel.NewUUID())
		driver := kernel.NewUUID()

		reassign, err := r.Edit(route.Patch{Driver: &driver}, now)

		require.NoError(t, err)
		assert.True(t, reassign)
		assert.True(t, r.AssignedTo(driver))
	})

	t.Run("order list change needs reassignment", func(t *testing.T) {
		r := newRoute(t)

		reassign, err := r.Edit(route.Patch{Orders: []kernel.UUID{kernel.NewUUID()}}, now)

		require.NoError(t, err)
		assert.True(t, reassign)
	})

	t.Run("invalid patch leaves the route untouched", func(t *testing.T) {
		r := newRoute(t)
		empty := ""
		bad := route.Status(42)

		_, err := r.Edit(route.Patch{Area: &empty, Status: &bad}, now)

		require.Error(t, err)
		assert.Equal(t, "North", r.Area())
		assert.Equal(t, route.Planned, r.Status())
	})
}

func TestRoute_SetStatus(t *testing.T) {
	r, err := route.NewRoute(kernel.NewUUID(), date, kernel.NewUUID(), "North", nil, now)
	require.NoError(t, err)

	require.NoError(t, r.SetStatus(route.Completed, now))
	assert.Equal(t, route.Completed, r.Status())

	require.NoError(t, r.SetStatus(route.Planned, now), "any valid status may be set directly")
	require.Error(t, r.SetStatus(route.Unknown, now))
}

func TestRoute_EnsureDeletable(t *testing.T) {
	r, err := route.NewRoute(kernel.NewUUID(), date, kernel.NewUUID(), "North", nil, now)
	require.NoError(t, err)
	require.NoError(t, r.EnsureDeletable())

	require.NoError(t, r.SetStatus(route.InProgress, now))
	err = r.EnsureDeletable()
	require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	assert.Contains(t, err.Error(), "only planned routes can be deleted")
}

func TestParseStatus(t *testing.T) {
	s, err := route.ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, route.InProgress, s)
	assert.Equal(t, "in_progress", s.String())

	_, err = route.ParseStatus("cancelled")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
