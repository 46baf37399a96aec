package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// LineItemStatus is the fulfillment state of a single line item, tracked
// independently from its order.
//
//	Unassigned ──┬──> Assigned ──> Started ──> Completed
//	             ├──> AssignedToRealLineItem
//	             └──> AssignmentFailed ──> Assigned
//
// Cancelled and Blackmark can be reached from any non-final state.
type LineItemStatus int

const (
	LineItemStatusUnknown LineItemStatus = iota
	LineItemStatusUnassigned
	LineItemStatusAssigned
	LineItemStatusStarted
	LineItemStatusCompleted
	LineItemStatusCancelled
	LineItemStatusBlackmark
	LineItemStatusAssignedToRealLineItem
	LineItemStatusAssignmentFailed
)

func getLineItemStatusStrings() map[LineItemStatus]string {
	return map[LineItemStatus]string{
		LineItemStatusUnknown:                "UNKNOWN",
		LineItemStatusUnassigned:             "UNASSIGNED",
		LineItemStatusAssigned:               "ASSIGNED",
		LineItemStatusStarted:                "STARTED",
		LineItemStatusCompleted:              "COMPLETED",
		LineItemStatusCancelled:              "CANCELLED",
		LineItemStatusBlackmark:              "BLACKMARK",
		LineItemStatusAssignedToRealLineItem: "ASSIGNED_TO_REAL_LINE_ITEM",
		LineItemStatusAssignmentFailed:       "ASSIGNMENT_FAILED",
	}
}

// AllLineItemStatuses lists every valid line item status in declaration order.
func AllLineItemStatuses() []LineItemStatus {
	return []LineItemStatus{
		LineItemStatusUnassigned, LineItemStatusAssigned, LineItemStatusStarted,
		LineItemStatusCompleted, LineItemStatusCancelled, LineItemStatusBlackmark,
		LineItemStatusAssignedToRealLineItem, LineItemStatusAssignmentFailed,
	}
}

// ParseLineItemStatus maps the persisted / wire name (case-insensitive) to a LineItemStatus.
func ParseLineItemStatus(value string) (LineItemStatus, error) {
	name := strings.ToUpper(strings.TrimSpace(value))
	for _, s := range AllLineItemStatuses() {
		if getLineItemStatusStrings()[s] == name {
			return s, nil
		}
	}
	return LineItemStatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid", fmt.Errorf("%q is not a line item status", value))
}

func (s LineItemStatus) Validate() error {
	if s <= LineItemStatusUnknown || s > LineItemStatusAssignmentFailed {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid line item status", s))
	}
	return nil
}

func (s LineItemStatus) String() string {
	if str, ok := getLineItemStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsFinal reports whether the line item lifecycle ends in s.
func (s LineItemStatus) IsFinal() bool {
	return s == LineItemStatusCompleted || s == LineItemStatusCancelled ||
		s == LineItemStatusAssignedToRealLineItem
}
