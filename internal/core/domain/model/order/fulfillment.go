package order

import (
	"fmt"

	"iskxpress/internal/pkg/errs"
)

// FulfillmentMethod says how the buyer gets the order.
type FulfillmentMethod string

const (
	Pickup   FulfillmentMethod = "Pickup"
	Delivery FulfillmentMethod = "Delivery"
)

func ParseFulfillmentMethod(s string) (FulfillmentMethod, error) {
	m := FulfillmentMethod(s)
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

func (m FulfillmentMethod) Validate() error {
	if m != Pickup && m != Delivery {
		return errs.NewValueIsInvalidErrorWithCause("fulfillmentMethod", fmt.Errorf("%q is not a valid fulfillment method", string(m)))
	}
	return nil
}

func (m FulfillmentMethod) String() string {
	return string(m)
}
