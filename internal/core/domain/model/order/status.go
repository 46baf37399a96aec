package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status is the fulfillment state of an order.
//
// The order lifecycle as operated by the shop floor:
//
//	Pending ──> Preparing ──> Prepared ──> InTransit ──> Delivered ──> Completed
//	                                           │
//	                                           └──> DeliveryFailed ──┬──> Redelivery ──> InTransit
//	                                                                 └──> Returning ──> Returned
//
// Blackmark and Cancelled can be reached from any non-final state. The lifecycle
// above is what StrictPolicy enforces; PermissivePolicy accepts any valid target.
type Status int

const (
	// StatusUnknown is the zero value and never a valid state.
	StatusUnknown Status = iota

	// StatusPending is set when the order is ingested.
	StatusPending

	// StatusPreparing means a florist is working on the order.
	StatusPreparing

	// StatusPrepared means the order is ready for dispatch.
	StatusPrepared

	// StatusInTransit means the order is en route to the recipient.
	StatusInTransit

	// StatusDelivered means the recipient received the order.
	StatusDelivered

	// StatusCompleted is set when the order is closed a few days after delivery.
	StatusCompleted

	// StatusDeliveryFailed means a delivery attempt was unsuccessful.
	StatusDeliveryFailed

	// StatusReturning means the return process was initiated.
	StatusReturning

	// StatusReturned means the order came back.
	StatusReturned

	// StatusRedelivery means another delivery attempt is being prepared.
	StatusRedelivery

	// StatusBlackmark flags an order that was blackmarked.
	StatusBlackmark

	// StatusCancelled means the order was cancelled.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:        "UNKNOWN",
		StatusPending:        "PENDING",
		StatusPreparing:      "PREPARING",
		StatusPrepared:       "PREPARED",
		StatusInTransit:      "IN_TRANSIT",
		StatusDelivered:      "DELIVERED",
		StatusCompleted:      "COMPLETED",
		StatusDeliveryFailed: "DELIVERY_FAILED",
		StatusReturning:      "RETURNING",
		StatusReturned:       "RETURNED",
		StatusRedelivery:     "REDELIVERY",
		StatusBlackmark:      "BLACKMARK",
		StatusCancelled:      "CANCELLED",
	}
}

// AllStatuses lists every valid order status in declaration order.
func AllStatuses() []Status {
	return []Status{
		StatusPending, StatusPreparing, StatusPrepared, StatusInTransit, StatusDelivered,
		StatusCompleted, StatusDeliveryFailed, StatusReturning, StatusReturned,
		StatusRedelivery, StatusBlackmark, StatusCancelled,
	}
}

// ParseStatus maps the persisted / wire name (case-insensitive) to a Status.
func ParseStatus(value string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(value))
	for _, s := range AllStatuses() {
		if getStatusStrings()[s] == name {
			return s, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid", fmt.Errorf("%q is not an order status", value))
}

// Validate checks that s is one of the declared states.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusCancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid order status", s))
	}
	return nil
}

// String returns the persisted name, e.g. "IN_TRANSIT".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsFinal reports whether the lifecycle ends in s.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusReturned || s == StatusCancelled
}
