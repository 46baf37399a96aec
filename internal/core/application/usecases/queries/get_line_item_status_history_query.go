package queries

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetLineItemStatusHistoryQueryIsNotConstructed = errors.New(
		"GetLineItemStatusHistoryQuery must be created via NewGetLineItemStatusHistoryQuery constructor",
	)
)

// GetLineItemStatusHistoryQuery lists every status a line item went through, oldest first.
type GetLineItemStatusHistoryQuery struct {
	lineItemID int64

	guard guard.ConstructorGuard
}

func NewGetLineItemStatusHistoryQuery(lineItemID int64) (GetLineItemStatusHistoryQuery, error) {
	if lineItemID <= 0 {
		return GetLineItemStatusHistoryQuery{}, errs.NewValueIsRequiredError("line item id")
	}
	return GetLineItemStatusHistoryQuery{lineItemID: lineItemID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetLineItemStatusHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetLineItemStatusHistoryQueryIsNotConstructed)
}

func (q GetLineItemStatusHistoryQuery) LineItemID() int64 { return q.lineItemID }
