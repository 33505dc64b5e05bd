package commands

import (
	"errors"
	"time"

	"iskxpress/internal/core/domain/model/kernel"
	"iskxpress/internal/pkg/guard"
)

var ErrAssignDeliveryPartnerCommandIsNotConstructed = errors.New(
	"AssignDeliveryPartnerCommand must be created via NewAssignDeliveryPartnerCommand constructor",
)

// AssignDeliveryPartnerCommand gives a Pending delivery request to a partner.
type AssignDeliveryPartnerCommand struct { //nolint:recvcheck //using for validation
	requestID kernel.UUID
	partnerID kernel.UUID
	now       time.Time

	guard guard.ConstructorGuard
}

func NewAssignDeliveryPartnerCommand(requestID, partnerID kernel.UUID, now time.Time) (AssignDeliveryPartnerCommand, error) {
	if err := errors.Join(requestID.Validate(), partnerID.Validate()); err != nil {
		return AssignDeliveryPartnerCommand{}, err
	}

	return AssignDeliveryPartnerCommand{
		requestID: requestID,
		partnerID: partnerID,
		now:       now,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDeliveryPartnerCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryPartnerCommandIsNotConstructed)
}

func (c AssignDeliveryPartnerCommand) RequestID() kernel.UUID {
	return c.requestID
}

func (c AssignDeliveryPartnerCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c AssignDeliveryPartnerCommand) Now() time.Time {
	return c.now
}
