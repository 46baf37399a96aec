package order

import (
	"fmt"
	"slices"
	"strings"

	"fulfillment/internal/pkg/errs"
)

const (
	PolicyPermissive = "permissive"
	PolicyStrict     = "strict"
)

// TransitionPolicy decides whether a status change is allowed. Both targets are always
// checked for validity; what else is checked depends on the policy.
type TransitionPolicy interface {
	AllowOrder(from, to Status) error
	AllowLineItem(from, to LineItemStatus) error
	Name() string
}

// NewTransitionPolicy returns the policy registered under name. An empty name selects
// PermissivePolicy.
func NewTransitionPolicy(name string) (TransitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyPermissive:
		return PermissivePolicy{}, nil
	case PolicyStrict:
		return StrictPolicy{}, nil
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("transition policy",
			fmt.Errorf("%q is neither %q nor %q", name, PolicyPermissive, PolicyStrict))
	}
}

// PermissivePolicy accepts any move to a valid state, including staying in the same
// state. Operators rely on it to correct statuses by hand.
type PermissivePolicy struct{}

func (PermissivePolicy) Name() string { return PolicyPermissive }

func (PermissivePolicy) AllowOrder(_, to Status) error {
	return to.Validate()
}

func (PermissivePolicy) AllowLineItem(_, to LineItemStatus) error {
	return to.Validate()
}

// StrictPolicy only accepts the moves of the fulfillment lifecycle. Final states accept
// nothing; every other state may additionally move to Cancelled or Blackmark.
type StrictPolicy struct{}

func (StrictPolicy) Name() string { return PolicyStrict }

func orderTransitions() map[Status][]Status {
	return map[Status][]Status{
		StatusPending:        {StatusPreparing},
		StatusPreparing:      {StatusPrepared},
		StatusPrepared:       {StatusInTransit},
		StatusInTransit:      {StatusDelivered, StatusDeliveryFailed},
		StatusDelivered:      {StatusCompleted},
		StatusDeliveryFailed: {StatusRedelivery, StatusReturning},
		StatusRedelivery:     {StatusInTransit},
		StatusReturning:      {StatusReturned},
		StatusBlackmark:      {},
	}
}

func lineItemTransitions() map[LineItemStatus][]LineItemStatus {
	return map[LineItemStatus][]LineItemStatus{
		LineItemStatusUnassigned: {
			LineItemStatusAssigned, LineItemStatusAssignedToRealLineItem, LineItemStatusAssignmentFailed,
		},
		LineItemStatusAssigned:         {LineItemStatusStarted, LineItemStatusUnassigned},
		LineItemStatusAssignmentFailed: {LineItemStatusAssigned},
		LineItemStatusStarted:          {LineItemStatusCompleted},
		LineItemStatusBlackmark:        {},
	}
}

func (StrictPolicy) AllowOrder(from, to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if !from.IsFinal() && from != to && (to == StatusCancelled || to == StatusBlackmark) {
		return nil
	}
	if slices.Contains(orderTransitions()[from], to) {
		return nil
	}
	return transitionDenied("order", from, to)
}

func (StrictPolicy) AllowLineItem(from, to LineItemStatus) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if !from.IsFinal() && from != to && (to == LineItemStatusCancelled || to == LineItemStatusBlackmark) {
		return nil
	}
	if slices.Contains(lineItemTransitions()[from], to) {
		return nil
	}
	return transitionDenied("line item", from, to)
}

func transitionDenied(scope string, from, to fmt.Stringer) error {
	return errs.NewValueIsInvalidErrorWithCause("status transition",
		fmt.Errorf("%s cannot move from %s to %s", scope, from, to))
}
