package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

// notesSeparator joins notes appended by drivers and facility staff.
const notesSeparator = " | "

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Details are the client supplied attributes of a new order.
type Details struct {
	Client        kernel.UUID
	Property      *kernel.UUID
	ServiceType   ServiceType
	PickupDate    time.Time
	PickupWindow  PickupWindow
	EstimatedBags int
	SpecialNotes  string
	Items         []Item
}

// Patch is a field edit. Nil fields are left untouched; a nil Items keeps
// the current lines while a non-nil empty slice clears them.
// The pricing snapshot is not part of a patch: it is fixed at creation.
type Patch struct {
	ServiceType   *ServiceType
	PickupDate    *time.Time
	PickupWindow  *PickupWindow
	EstimatedBags *int
	SpecialNotes  *string
	Items         []Item
}

// PickupConfirmation is what a driver submits when collecting the bags.
type PickupConfirmation struct {
	ActualBags int
	Photos     []PhotoUpload
	Items      []Item
	Notes      string
}

// DeliveryConfirmation is what a driver submits when handing the order back.
type DeliveryConfirmation struct {
	Method ConfirmationMethod
	Photos []PhotoUpload
	Notes  string
}

// Order is the aggregate root at the centre of the system. Routes and invoices
// reference it by ID and drive it through the pipeline as side effects of their
// own lifecycles.
//
// Invariants:
//   - status is always one of the thirteen pipeline values
//   - every status change appends exactly one history entry naming the actor
//   - history and photos are append-only
//   - the pricing snapshot never changes after creation
type Order struct {
	id            kernel.UUID
	number        Number
	client        kernel.UUID
	property      *kernel.UUID
	serviceType   ServiceType
	pickupDate    time.Time
	pickupWindow  PickupWindow
	estimatedBags int
	actualBags    int
	specialNotes  string
	deliverID     *kernel.UUID
	status        Status
	confirmedBy   ConfirmationMethod
	items         []Item
	pricing       PricingSnapshot
	history       []HistoryEntry
	photos        []Photo
	createdAt     time.Time
	updatedAt     time.Time

	events []StatusChanged
	guard  guard.ConstructorGuard
}

// NewOrder creates a Pending order and seeds its history with the creating actor.
// A nil pricing falls back to DefaultPricingSnapshot.
//
//	o, err := order.NewOrder(kernel.NewUUID(), order.GenerateNumber(now), details, nil, actor.UserID, now)
func NewOrder(
	id kernel.UUID,
	number Number,
	details Details,
	pricing *PricingSnapshot,
	createdBy kernel.UUID,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:    Unknown,
		pricing:   DefaultPricingSnapshot(),
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}
	if pricing != nil {
		o.pricing = *pricing
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setClient(details.Client),
		o.setProperty(details.Property),
		o.setServiceType(details.ServiceType),
		o.setPickupDate(details.PickupDate),
		o.setPickupWindow(details.PickupWindow),
		o.setEstimatedBags(details.EstimatedBags),
		createdBy.Validate(),
	); err != nil {
		return nil, err
	}

	o.specialNotes = strings.TrimSpace(details.SpecialNotes)
	o.items = slices.Clone(details.Items)
	o.changeStatus(Pending, createdBy, now)

	return o, nil
}

// Snapshot carries every persisted attribute of an order for RestoreOrder.
type Snapshot struct {
	ID                 kernel.UUID
	Number             Number
	Client             kernel.UUID
	Property           *kernel.UUID
	ServiceType        ServiceType
	PickupDate         time.Time
	PickupWindow       PickupWindow
	EstimatedBags      int
	ActualBags         int
	SpecialNotes       string
	DeliverID          *kernel.UUID
	Status             Status
	ConfirmationMethod ConfirmationMethod
	Items              []Item
	Pricing            PricingSnapshot
	History            []HistoryEntry
	Photos             []Photo
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RestoreOrder rebuilds an order loaded from storage. No history entry or event is added.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		actualBags:   s.ActualBags,
		specialNotes: s.SpecialNotes,
		confirmedBy:  s.ConfirmationMethod,
		items:        slices.Clone(s.Items),
		pricing:      s.Pricing,
		history:      slices.Clone(s.History),
		photos:       slices.Clone(s.Photos),
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
		guard:        guard.NewConstructorGuard(),
	}

	var deliverErr error
	if s.DeliverID != nil {
		deliverErr = s.DeliverID.Validate()
		id := *s.DeliverID
		o.deliverID = &id
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		o.setClient(s.Client),
		o.setProperty(s.Property),
		o.setServiceType(s.ServiceType),
		o.setPickupDate(s.PickupDate),
		o.setPickupWindow(s.PickupWindow),
		o.setEstimatedBags(s.EstimatedBags),
		s.Status.Validate(),
		deliverErr,
	); err != nil {
		return nil, err
	}
	o.status = s.Status

	return o, nil
}

// Validate ensures the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by ID.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                        { return o.id }
func (o *Order) Number() Number                         { return o.number }
func (o *Order) Client() kernel.UUID                    { return o.client }
func (o *Order) Property() *kernel.UUID                 { return o.property }
func (o *Order) ServiceType() ServiceType               { return o.serviceType }
func (o *Order) PickupDate() time.Time                  { return o.pickupDate }
func (o *Order) PickupWindow() PickupWindow             { return o.pickupWindow }
func (o *Order) EstimatedBags() int                     { return o.estimatedBags }
func (o *Order) ActualBags() int                        { return o.actualBags }
func (o *Order) SpecialNotes() string                   { return o.specialNotes }
func (o *Order) DeliverID() *kernel.UUID                { return o.deliverID }
func (o *Order) Status() Status                         { return o.status }
func (o *Order) ConfirmationMethod() ConfirmationMethod { return o.confirmedBy }
func (o *Order) Items() []Item                          { return slices.Clone(o.items) }
func (o *Order) Pricing() PricingSnapshot               { return o.pricing }
func (o *Order) History() []HistoryEntry                { return slices.Clone(o.history) }
func (o *Order) Photos() []Photo                        { return slices.Clone(o.photos) }
func (o *Order) CreatedAt() time.Time                   { return o.createdAt }
func (o *Order) UpdatedAt() time.Time                   { return o.updatedAt }

// DomainEvents returns the status changes raised since the order was loaded.
func (o *Order) DomainEvents() []StatusChanged {
	return slices.Clone(o.events)
}

// ClearDomainEvents drops raised events once they are published.
func (o *Order) ClearDomainEvents() {
	o.events = nil
}

// Edit merges a field patch. Staff may only edit before pickup; admins may edit at any stage.
// Status and history are not touched.
func (o *Order) Edit(patch Patch, actor access.Actor, now time.Time) error {
	if actor.Role != access.Admin {
		if err := o.status.ValidateEditable(); err != nil {
			return err
		}
	}

	// Validate everything first so a rejected patch leaves the order untouched.
	edited := *o
	var errList []error
	if patch.ServiceType != nil {
		errList = append(errList, edited.setServiceType(*patch.ServiceType))
	}
	if patch.PickupDate != nil {
		errList = append(errList, edited.setPickupDate(*patch.PickupDate))
	}
	if patch.PickupWindow != nil {
		errList = append(errList, edited.setPickupWindow(*patch.PickupWindow))
	}
	if patch.EstimatedBags != nil {
		errList = append(errList, edited.setEstimatedBags(*patch.EstimatedBags))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	if patch.SpecialNotes != nil {
		edited.specialNotes = strings.TrimSpace(*patch.SpecialNotes)
	}
	if patch.Items != nil {
		edited.items = slices.Clone(patch.Items)
	}
	edited.updatedAt = now

	*o = edited
	return nil
}

// SetStatus is the permissive status setter: any valid status is accepted from any
// current status, including jumps such as Pending to Completed.
func (o *Order) SetStatus(status Status, changedBy kernel.UUID, now time.Time) error {
	if err := errors.Join(status.Validate(), changedBy.Validate()); err != nil {
		return err
	}
	o.changeStatus(status, changedBy, now)
	return nil
}

// ConfirmPickup records the collection of the bags by a driver and moves the order to Transit.
// The confirming actor becomes the order's driver.
func (o *Order) ConfirmPickup(p PickupConfirmation, driverID kernel.UUID, now time.Time) error {
	next, err := o.status.ConfirmPickup()
	if err != nil {
		return err
	}

	var bagsErr error
	if p.ActualBags <= 0 {
		bagsErr = errs.NewValueIsInvalidErrorWithCause("actual_bags", fmt.Errorf("%d is not greater than 0", p.ActualBags))
	}
	if err = errors.Join(bagsErr, validateUploads(p.Photos), driverID.Validate()); err != nil {
		return err
	}

	o.actualBags = p.ActualBags
	o.appendPhotos(p.Photos, now)
	if p.Items != nil {
		o.items = slices.Clone(p.Items)
	}
	o.appendNotes(p.Notes)
	id := driverID
	o.deliverID = &id
	o.changeStatus(next, driverID, now)
	return nil
}

// ReceiveAtFacility records arrival of the bags at the facility and moves the order to Arrived.
// A nil items keeps the current lines.
func (o *Order) ReceiveAtFacility(items []Item, internalNotes string, changedBy kernel.UUID, now time.Time) error {
	next, err := o.status.ReceiveAtFacility()
	if err != nil {
		return err
	}
	if err = changedBy.Validate(); err != nil {
		return err
	}

	if items != nil {
		o.items = slices.Clone(items)
	}
	o.appendNotes(internalNotes)
	o.changeStatus(next, changedBy, now)
	return nil
}

// ConfirmDelivery records the hand-over to the client and moves the order to Delivered.
func (o *Order) ConfirmDelivery(d DeliveryConfirmation, changedBy kernel.UUID, now time.Time) error {
	next, err := o.status.ConfirmDelivery()
	if err != nil {
		return err
	}
	if err = errors.Join(d.Method.Validate(), validateUploads(d.Photos), changedBy.Validate()); err != nil {
		return err
	}

	o.appendPhotos(d.Photos, now)
	o.appendNotes(d.Notes)
	o.confirmedBy = d.Method
	o.changeStatus(next, changedBy, now)
	return nil
}

// AssignToDriver binds the order to a route's driver and sets it to Assigned.
// It is driven by route planning and, like SetStatus, does not check the current status.
func (o *Order) AssignToDriver(driverID kernel.UUID, changedBy kernel.UUID, now time.Time) error {
	if err := errors.Join(driverID.Validate(), changedBy.Validate()); err != nil {
		return err
	}
	id := driverID
	o.deliverID = &id
	o.changeStatus(Assigned, changedBy, now)
	return nil
}

// MarkInvoiced sets the order to Invoiced once an invoice references it.
func (o *Order) MarkInvoiced(changedBy kernel.UUID, now time.Time) error {
	return o.SetStatus(Invoiced, changedBy, now)
}

// Complete sets the order to Completed once its invoice is settled.
func (o *Order) Complete(changedBy kernel.UUID, now time.Time) error {
	return o.SetStatus(Completed, changedBy, now)
}

// EnsureDeletable fails unless the order is still Pending.
func (o *Order) EnsureDeletable() error {
	return o.status.ValidateDeletable()
}

// VisibleTo rejects a client reading somebody else's order. Other roles see every order.
func (o *Order) VisibleTo(actor access.Actor) error {
	if actor.Role == access.Client && !actor.Owns(o.client) {
		return errs.NewForbiddenError("order belongs to another client")
	}
	return nil
}

func (o *Order) changeStatus(to Status, changedBy kernel.UUID, now time.Time) {
	from := o.status
	o.status = to
	o.history = append(o.history, HistoryEntry{status: to, changedBy: changedBy, timestamp: now})
	o.updatedAt = now
	o.events = append(o.events, StatusChanged{
		OrderID:     o.id,
		OrderNumber: o.number,
		From:        from,
		To:          to,
		ChangedBy:   changedBy,
		At:          now,
	})
}

func (o *Order) appendPhotos(uploads []PhotoUpload, now time.Time) {
	for _, u := range uploads {
		o.photos = append(o.photos, Photo{url: u.URL, photoType: u.Type, uploadedAt: now})
	}
}

func (o *Order) appendNotes(notes string) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return
	}
	if o.specialNotes == "" {
		o.specialNotes = notes
		return
	}
	o.specialNotes = o.specialNotes + notesSeparator + notes
}

func validateUploads(uploads []PhotoUpload) error {
	errList := make([]error, 0, len(uploads))
	for _, u := range uploads {
		errList = append(errList, u.Validate())
	}
	return errors.Join(errList...)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(n Number) error {
	if _, err := ParseNumber(string(n)); err != nil {
		return err
	}
	o.number = n
	return nil
}

func (o *Order) setClient(client kernel.UUID) error {
	if err := client.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("client", err)
	}
	o.client = client
	return nil
}

func (o *Order) setProperty(property *kernel.UUID) error {
	if property == nil {
		o.property = nil
		return nil
	}
	if err := property.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("property", err)
	}
	id := *property
	o.property = &id
	return nil
}

func (o *Order) setServiceType(t ServiceType) error {
	if err := t.Validate(); err != nil {
		return err
	}
	o.serviceType = t
	return nil
}

func (o *Order) setPickupDate(d time.Time) error {
	if d.IsZero() {
		return errs.NewValueIsRequiredError("pickup_date")
	}
	o.pickupDate = d
	return nil
}

func (o *Order) setPickupWindow(w PickupWindow) error {
	if w.start.IsZero() || w.end.IsZero() {
		return errs.NewValueIsRequiredError("pickup_window")
	}
	o.pickupWindow = w
	return nil
}

func (o *Order) setEstimatedBags(n int) error {
	if n < 0 {
		return errs.NewValueIsInvalidErrorWithCause("estimated_bags", fmt.Errorf("%d is negative", n))
	}
	o.estimatedBags = n
	return nil
}
