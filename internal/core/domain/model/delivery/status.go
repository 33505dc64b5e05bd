package delivery

import (
	"fmt"

	"iskxpress/internal/pkg/errs"
)

// Status is the lifecycle state of a delivery request.
//
//	Pending ──> Assigned ──> Completed
//	   │           │
//	   └───────────┴──> Cancelled
type Status string

const (
	Pending   Status = "Pending"
	Assigned  Status = "Assigned"
	Completed Status = "Completed"
	Cancelled Status = "Cancelled"
)

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (s Status) Validate() error {
	switch s {
	case Pending, Assigned, Completed, Cancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid delivery request status", string(s)))
	}
}

func (s Status) String() string {
	return string(s)
}

// IsActive reports whether a request in this status still blocks a new one for the same order.
func (s Status) IsActive() bool {
	return s == Pending || s == Assigned
}
