package order

import (
	"fmt"

	"iskxpress/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> ToPrepare ──> ToDeliver ──> ToReceive ──> Accomplished
//	   │
//	   └──> Rejected
//
// Rejected and Accomplished are terminal. Status is persisted as its string name;
// any other string read back from storage is treated as corrupt data.
type Status string

const (
	// Pending is the initial status of a freshly checked-out order awaiting the vendor.
	Pending Status = "Pending"

	// ToPrepare means the vendor accepted the order and is preparing it.
	ToPrepare Status = "ToPrepare"

	// ToDeliver means the order is ready to leave the stall.
	ToDeliver Status = "ToDeliver"

	// ToReceive means the order was handed over and the buyer's confirmation window is open.
	ToReceive Status = "ToReceive"

	// Accomplished is the final state of a received order.
	Accomplished Status = "Accomplished"

	// Rejected is the final state of an order the vendor declined.
	Rejected Status = "Rejected"
)

// transitions is the complete table of allowed forward moves.
var transitions = map[Status][]Status{
	Pending:   {ToPrepare, Rejected},
	ToPrepare: {ToDeliver},
	ToDeliver: {ToReceive},
	ToReceive: {Accomplished},
}

// ParseStatus converts a persisted or client-supplied name into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate checks that s is one of the six known statuses.
func (s Status) Validate() error {
	switch s {
	case Pending, ToPrepare, ToDeliver, ToReceive, Accomplished, Rejected:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", string(s)))
	}
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Accomplished || s == Rejected
}

// CanMoveTo reports whether target is directly reachable from s.
func (s Status) CanMoveTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// MoveTo returns target when the table allows it, or an InvalidTransitionError otherwise.
func (s Status) MoveTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}
	if !s.CanMoveTo(target) {
		return "", errs.NewInvalidTransitionError("order", s.String(), target.String())
	}
	return target, nil
}
