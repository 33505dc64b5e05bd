package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/errs"
	"iskxpress/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrNoDeliveryPartner is the cause attached when a delivery order is handed over
	// before any partner was assigned to it.
	ErrNoDeliveryPartner = errors.New("no delivery partner is assigned to the order")

	// ErrAccomplishedThroughConfirmation is the cause attached when a caller tries to
	// set Accomplished directly instead of confirming receipt.
	ErrAccomplishedThroughConfirmation = errors.New("orders are accomplished only by confirming receipt")
)

// Order is the aggregate root of the order lifecycle. It owns its items, enforces the
// status table and records an Event for every change worth publishing.
//
// Order follows these invariants:
//   - Items are immutable snapshots taken at checkout and there is at least one
//   - totalPrice = Σ(priceEach × quantity) + deliveryFee
//   - totalCommissionFee = Σ(commissionFee × quantity)
//   - Delivery orders carry a non-blank delivery address
//   - Only status, deliveryPartnerID, rejectionReason and updatedAt change after creation
//
// Every mutating method takes the current time explicitly; the aggregate never reads a clock.
type Order struct {
	id                 kernel.UUID
	userID             kernel.UUID
	stallID            kernel.UUID
	status             Status
	fulfillment        FulfillmentMethod
	deliveryAddress    string
	notes              string
	deliveryPartnerID  *kernel.UUID
	items              []*Item
	deliveryFee        kernel.Money
	totalPrice         kernel.Money
	totalCommissionFee kernel.Money
	rejectionReason    string
	createdAt          time.Time
	updatedAt          time.Time

	// version is the optimistic concurrency token as of load time.
	version int

	events []Event
	guard  guard.ConstructorGuard
}

// NewOrder creates an order in Pending from checked-out items. Totals are derived
// from the items and the delivery fee, never supplied by the caller.
//
// Example:
//
//	item, _ := order.NewItem(kernel.NewUUID(), productID, 2, kernel.MustMoney("110.00"), kernel.MustMoney("10.00"))
//	o, err := order.NewOrder(kernel.NewUUID(), userID, stallID, order.Pickup, "", "", []*order.Item{item}, kernel.ZeroMoney, now)
func NewOrder(
	id, userID, stallID kernel.UUID,
	method FulfillmentMethod,
	deliveryAddress, notes string,
	items []*Item,
	deliveryFee kernel.Money,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:    Pending,
		notes:     notes,
		createdAt: now,
		updatedAt: now,
		version:   1,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setIdentity(id, userID, stallID),
		o.setFulfillment(method, deliveryAddress),
		o.setItems(items, deliveryFee),
	); err != nil {
		return nil, err
	}

	o.record(CreatedEvent{
		OrderID:           id.String(),
		UserID:            userID.String(),
		StallID:           stallID.String(),
		FulfillmentMethod: method.String(),
		TotalPrice:        o.totalPrice.String(),
		ItemCount:         len(items),
		OccurredAt:        now,
		id:                id,
	})
	return o, nil
}

// Snapshot carries every persisted field of an order for RestoreOrder.
type Snapshot struct {
	ID                 kernel.UUID
	UserID             kernel.UUID
	StallID            kernel.UUID
	Status             Status
	FulfillmentMethod  FulfillmentMethod
	DeliveryAddress    string
	Notes              string
	DeliveryPartnerID  *kernel.UUID
	Items              []*Item
	DeliveryFee        kernel.Money
	TotalPrice         kernel.Money
	TotalCommissionFee kernel.Money
	RejectionReason    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int
}

// RestoreOrder reconstructs an Order from storage. Stored totals are checked against
// the items, so a row that breaks the price invariant is reported instead of loaded.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		status:            s.Status,
		notes:             s.Notes,
		deliveryPartnerID: s.DeliveryPartnerID,
		rejectionReason:   s.RejectionReason,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
		version:           s.Version,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.Status.Validate(),
		o.setIdentity(s.ID, s.UserID, s.StallID),
		o.setFulfillment(s.FulfillmentMethod, s.DeliveryAddress),
		o.setItems(s.Items, s.DeliveryFee),
	); err != nil {
		return nil, err
	}

	if !o.totalPrice.Equal(s.TotalPrice) || !o.totalCommissionFee.Equal(s.TotalCommissionFee) {
		return nil, errs.NewValueIsInvalidErrorWithCause("totals", fmt.Errorf(
			"stored total %s / commission %s do not match items %s / %s",
			s.TotalPrice, s.TotalCommissionFee, o.totalPrice, o.totalCommissionFee))
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) UserID() kernel.UUID {
	return o.userID
}

func (o *Order) StallID() kernel.UUID {
	return o.stallID
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) FulfillmentMethod() FulfillmentMethod {
	return o.fulfillment
}

func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

func (o *Order) Notes() string {
	return o.notes
}

// DeliveryPartnerID returns nil until a partner is assigned.
func (o *Order) DeliveryPartnerID() *kernel.UUID {
	return o.deliveryPartnerID
}

// Items returns a copy of the item slice; the items themselves are immutable.
func (o *Order) Items() []*Item {
	items := make([]*Item, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

func (o *Order) TotalPrice() kernel.Money {
	return o.totalPrice
}

func (o *Order) TotalCommissionFee() kernel.Money {
	return o.totalCommissionFee
}

func (o *Order) RejectionReason() string {
	return o.rejectionReason
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) Version() int {
	return o.version
}

// VisibleTo reports whether actor may read the order: its buyer, the stall's vendor,
// the assigned delivery partner, or the system.
func (o *Order) VisibleTo(actor kernel.Actor) bool {
	return IsVisible(actor, o.userID, o.stallID, o.deliveryPartnerID)
}

// IsVisible is VisibleTo over the bare identifiers, for read models that never load
// the aggregate.
func IsVisible(actor kernel.Actor, userID, stallID kernel.UUID, deliveryPartnerID *kernel.UUID) bool {
	switch actor.Role() {
	case kernel.RoleSystem:
		return true
	case kernel.RoleUser:
		return actor.ID().IsEqual(userID)
	case kernel.RoleVendor:
		return actor.RunsStall(stallID)
	case kernel.RoleDeliveryPartner:
		return deliveryPartnerID != nil && deliveryPartnerID.IsEqual(actor.ID())
	default:
		return false
	}
}

// TransitionTo performs a generic status update requested by actor.
//
// Rejected needs a reason and goes through Reject; Accomplished is reachable only by
// confirming receipt, so both are refused here.
func (o *Order) TransitionTo(target Status, actor kernel.Actor, now time.Time) error {
	switch target {
	case ToPrepare:
		return o.Accept(actor, now)
	case ToDeliver:
		return o.MarkReady(actor, now)
	case ToReceive:
		return o.HandOver(actor, now)
	case Rejected:
		if !o.status.CanMoveTo(Rejected) {
			return errs.NewInvalidTransitionError("order", o.status.String(), target.String())
		}
		return errs.NewValueIsRequiredError("rejectionReason")
	case Accomplished:
		return errs.NewInvalidTransitionErrorWithCause("order", o.status.String(), target.String(), ErrAccomplishedThroughConfirmation)
	default:
		if err := target.Validate(); err != nil {
			return err
		}
		return errs.NewInvalidTransitionError("order", o.status.String(), target.String())
	}
}

// Accept moves Pending to ToPrepare. Only the vendor of the order's stall may accept it.
func (o *Order) Accept(actor kernel.Actor, now time.Time) error {
	return o.transition(ToPrepare, actor, "", now, o.authorizeVendor(actor, "accept order"))
}

// Reject moves Pending to Rejected and stores reason exactly as given.
func (o *Order) Reject(actor kernel.Actor, reason string, now time.Time) error {
	if !o.status.CanMoveTo(Rejected) {
		return errs.NewInvalidTransitionError("order", o.status.String(), Rejected.String())
	}
	if err := o.authorizeVendor(actor, "reject order")(); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("rejectionReason")
	}

	if err := o.transition(Rejected, actor, reason, now, nil); err != nil {
		return err
	}
	o.rejectionReason = reason
	return nil
}

// MarkReady moves ToPrepare to ToDeliver on behalf of the stall's vendor.
func (o *Order) MarkReady(actor kernel.Actor, now time.Time) error {
	return o.transition(ToDeliver, actor, "", now, o.authorizeVendor(actor, "mark order ready"))
}

// HandOver moves ToDeliver to ToReceive. Pickup orders are handed over by the vendor;
// delivery orders by the partner assigned to them. Whether the delivery request allows
// it is decided by the caller, which holds the request.
func (o *Order) HandOver(actor kernel.Actor, now time.Time) error {
	authorize := o.authorizeVendor(actor, "hand over order")
	if o.fulfillment == Delivery {
		authorize = func() error {
			if o.deliveryPartnerID == nil {
				return errs.NewInvalidTransitionErrorWithCause("order", o.status.String(), ToReceive.String(), ErrNoDeliveryPartner)
			}
			if actor.Role() != kernel.RoleDeliveryPartner || !actor.ID().IsEqual(*o.deliveryPartnerID) {
				return errs.NewPermissionError(actor.String(), "hand over order "+o.id.String())
			}
			return nil
		}
	}
	return o.transition(ToReceive, actor, "", now, authorize)
}

// Accomplish moves ToReceive to Accomplished. The buyer does it by confirming receipt,
// the system by auto-confirming after the window closes.
func (o *Order) Accomplish(actor kernel.Actor, now time.Time) error {
	authorize := func() error {
		if actor.Role() == kernel.RoleSystem {
			return nil
		}
		if actor.Role() == kernel.RoleUser && actor.ID().IsEqual(o.userID) {
			return nil
		}
		return errs.NewPermissionError(actor.String(), "confirm order "+o.id.String())
	}
	return o.transition(Accomplished, actor, "", now, authorize)
}

// AssignDeliveryPartner records the partner who took the order's delivery request.
// Only delivery orders that are being prepared or waiting for pickup accept a partner.
func (o *Order) AssignDeliveryPartner(partnerID kernel.UUID, now time.Time) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	if o.fulfillment != Delivery {
		return errs.NewValueIsInvalidErrorWithCause("fulfillmentMethod", fmt.Errorf("%s orders have no delivery partner", o.fulfillment))
	}
	if o.status != ToPrepare && o.status != ToDeliver {
		return errs.NewInvalidTransitionErrorWithCause("order", o.status.String(), o.status.String(),
			fmt.Errorf("a partner cannot be assigned to a %s order", o.status))
	}

	o.deliveryPartnerID = &partnerID
	o.updatedAt = now
	return nil
}

// ReleaseDeliveryPartner forgets the assigned partner after their request was cancelled.
// Status is left untouched.
func (o *Order) ReleaseDeliveryPartner(now time.Time) {
	if o.deliveryPartnerID == nil {
		return
	}
	o.deliveryPartnerID = nil
	o.updatedAt = now
}

// PullEvents returns the recorded events and clears them.
func (o *Order) PullEvents() []Event {
	events := o.events
	o.events = nil
	return events
}

func (o *Order) transition(target Status, actor kernel.Actor, reason string, now time.Time, authorize func() error) error {
	next, err := o.status.MoveTo(target)
	if err != nil {
		return err
	}
	if authorize != nil {
		if err = authorize(); err != nil {
			return err
		}
	}

	from := o.status
	o.status = next
	o.updatedAt = now
	o.record(StatusChangedEvent{
		OrderID:    o.id.String(),
		StallID:    o.stallID.String(),
		From:       from.String(),
		To:         next.String(),
		Actor:      actor.String(),
		Reason:     reason,
		OccurredAt: now,
		id:         o.id,
	})
	return nil
}

func (o *Order) authorizeVendor(actor kernel.Actor, action string) func() error {
	return func() error {
		if !actor.RunsStall(o.stallID) {
			return errs.NewPermissionError(actor.String(), action+" "+o.id.String())
		}
		return nil
	}
}

func (o *Order) record(e Event) {
	o.events = append(o.events, e)
}

func (o *Order) setIdentity(id, userID, stallID kernel.UUID) error {
	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		stallID.Validate(),
	); err != nil {
		return err
	}
	o.id = id
	o.userID = userID
	o.stallID = stallID
	return nil
}

func (o *Order) setFulfillment(method FulfillmentMethod, deliveryAddress string) error {
	if err := method.Validate(); err != nil {
		return err
	}
	if method == Delivery && strings.TrimSpace(deliveryAddress) == "" {
		return errs.NewValueIsRequiredError("deliveryAddress")
	}
	o.fulfillment = method
	o.deliveryAddress = deliveryAddress
	return nil
}

func (o *Order) setItems(items []*Item, deliveryFee kernel.Money) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	total := kernel.ZeroMoney
	commission := kernel.ZeroMoney
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		total = total.Add(item.LineTotal())
		commission = commission.Add(item.LineCommission())
	}

	o.items = items
	o.deliveryFee = deliveryFee
	o.totalPrice = total.Add(deliveryFee)
	o.totalCommissionFee = commission
	return nil
}
