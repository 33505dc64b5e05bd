package kernel

import (
	"iskxpress/internal/pkg/errs"
)

// Role is the marketplace role an actor acts under.
type Role string

const (
	RoleUser            Role = "User"
	RoleVendor          Role = "Vendor"
	RoleDeliveryPartner Role = "DeliveryPartner"
	RoleSystem          Role = "System"
)

func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleVendor, RoleDeliveryPartner, RoleSystem:
		return nil
	default:
		return errs.NewValueIsInvalidError("role")
	}
}

func (r Role) String() string {
	return string(r)
}

// Actor is the party performing a command. Vendors always carry the stall they run.
type Actor struct {
	id      UUID
	role    Role
	stallID *UUID
}

// NewActor builds an actor for a buyer or delivery partner; use NewVendorActor for vendors.
func NewActor(id UUID, role Role) (Actor, error) {
	if role == RoleVendor {
		return Actor{}, errs.NewValueIsRequiredError("stallID")
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

// NewVendorActor creates a vendor bound to the stall they run.
func NewVendorActor(id UUID, stallID UUID) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := stallID.Validate(); err != nil {
		return Actor{}, errs.NewValueIsRequiredErrorWithCause("stallID", err)
	}
	return Actor{id: id, role: RoleVendor, stallID: &stallID}, nil
}

// SystemActor stands for scheduled work such as the confirmation sweep.
func SystemActor() Actor {
	return Actor{role: RoleSystem}
}

func (a Actor) ID() UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) StallID() *UUID {
	return a.stallID
}

// RunsStall reports whether the actor is the vendor of stallID.
func (a Actor) RunsStall(stallID UUID) bool {
	return a.role == RoleVendor && a.stallID != nil && a.stallID.IsEqual(stallID)
}

// String is used in permission errors.
func (a Actor) String() string {
	if a.role == RoleSystem {
		return "system"
	}
	return string(a.role) + " " + a.id.String()
}
