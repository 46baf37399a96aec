package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrOrderAlreadyIngested is returned when the order number is already stored.
// It wraps the errs.ObjectAlreadyExistsError raised by the repository.
var ErrOrderAlreadyIngested = errors.New("order already ingested")

// IngestOrderResult holds the stored order graph and the ids written alongside it.
type IngestOrderResult struct {
	Order             *order.Order
	CustomerID        int64
	ShippingAddressID *int64
	BillingAddressID  *int64
	OrderAuditID      int64
	LineItemAuditIDs  []int64

	// MissingDeliveryFields repeats the delivery attributes the payload lacked.
	MissingDeliveryFields []string
}

// IngestOrderCommandHandler persists a normalized order with its customer, addresses,
// line items, properties, shipping lines and initial audit rows in one transaction.
//
// Example:
//
//	cmd, err := commands.NewIngestOrderCommand(aggregate, "tech@bloomthis.co")
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, commands.ErrOrderAlreadyIngested) {
//	    // acknowledged earlier, nothing to do
//	}
type IngestOrderCommandHandler struct {
	uowFactory IngestionUoWFactory
	scheduler  *services.DeliveryScheduler
	logger     *slog.Logger
}

func NewIngestOrderCommandHandler(
	uowFactory IngestionUoWFactory,
	scheduler *services.DeliveryScheduler,
	logger *slog.Logger,
) *IngestOrderCommandHandler {
	return &IngestOrderCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
		logger:     logger.With("component", "IngestOrderCommandHandler"),
	}
}

// Handle writes, in this order: customer, address pair, order, then per line item its
// row, its UNASSIGNED audit and its properties, then shipping lines and finally the
// PENDING order audit. Any failure rolls back every write.
func (h *IngestOrderCommandHandler) Handle(ctx context.Context, cmd IngestOrderCommand) (IngestOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return IngestOrderResult{}, err
	}

	agg := cmd.Aggregate()
	actor := cmd.Actor()
	now := time.Now().UTC().Truncate(time.Microsecond)
	ref := services.DeliveryRef{OrderID: agg.Order.ExternalID, OrderNumber: agg.Order.OrderNumber}

	if !agg.IsDeliveryComplete() {
		h.logger.WarnContext(ctx, "order is missing delivery metadata",
			"external_id", agg.Order.ExternalID,
			"order_number", agg.Order.OrderNumber,
			"missing", agg.MissingDeliveryFields,
		)
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return IngestOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	customers := uow.CustomerRepository()
	orders := uow.OrderRepository()
	audits := uow.StatusAuditRepository()

	buyer, err := customer.NewCustomer(agg.CustomerEmail, agg.Customer)
	if err != nil {
		return IngestOrderResult{}, err
	}
	if err = customers.Upsert(ctx, buyer); err != nil {
		return IngestOrderResult{}, err
	}

	result := IngestOrderResult{CustomerID: buyer.ID(), MissingDeliveryFields: agg.MissingDeliveryFields}

	o, err := order.NewOrder(agg.Order, buyer.ID(), now, actor)
	if err != nil {
		return IngestOrderResult{}, err
	}

	if agg.HasAddressPair() {
		shipping, err := h.addAddress(ctx, customers, buyer.ID(), *agg.ShippingAddress)
		if err != nil {
			return IngestOrderResult{}, err
		}
		billing, err := h.addAddress(ctx, customers, buyer.ID(), *agg.BillingAddress)
		if err != nil {
			return IngestOrderResult{}, err
		}
		if err = o.UseAddresses(shipping, billing); err != nil {
			return IngestOrderResult{}, err
		}
		result.ShippingAddressID = &shipping
		result.BillingAddressID = &billing
	}

	o.ScheduleDelivery(h.scheduler.Schedule(ctx, ref, agg.Order.DeliveryDate, agg.Order.DeliverySession))

	if err = orders.Add(ctx, o); err != nil {
		var existsErr *errs.ObjectAlreadyExistsError
		if errors.As(err, &existsErr) && existsErr.ParamName == "order number" {
			return IngestOrderResult{}, fmt.Errorf("%w: %w", ErrOrderAlreadyIngested, err)
		}
		return IngestOrderResult{}, err
	}

	// Line items are written one after another, each with its audit row before its
	// properties.
	for _, input := range agg.LineItems {
		properties := make([]*order.Property, 0, len(input.Properties))
		for _, p := range input.Properties {
			properties = append(properties, order.NewProperty(p.Name, p.Value))
		}

		item, err := order.NewLineItem(input.Details, properties, now, actor)
		if err != nil {
			return IngestOrderResult{}, err
		}
		if err = o.AddLineItem(item); err != nil {
			return IngestOrderResult{}, err
		}
		if err = orders.AddLineItem(ctx, o.ID(), item); err != nil {
			return IngestOrderResult{}, err
		}

		itemAudit, err := order.NewLineItemStatusAudit(
			item.ID(), o.ID(), order.LineItemStatusUnassigned, actor, order.IngestedLineItemNote, nil, now,
		)
		if err != nil {
			return IngestOrderResult{}, err
		}
		if err = audits.AddLineItemAudit(ctx, itemAudit); err != nil {
			return IngestOrderResult{}, err
		}
		result.LineItemAuditIDs = append(result.LineItemAuditIDs, itemAudit.ID())

		if err = orders.AddProperties(ctx, item); err != nil {
			return IngestOrderResult{}, err
		}

		if override := item.DeliveryDateOverride(); override != nil {
			o.ScheduleDelivery(h.scheduler.Schedule(ctx, ref, override, agg.Order.DeliverySession))
			if err = orders.UpdateDeliverySchedule(ctx, o); err != nil {
				return IngestOrderResult{}, err
			}
		}
	}

	shippingLines := make([]*order.ShippingLine, 0, len(agg.ShippingLines))
	for _, details := range agg.ShippingLines {
		line, err := order.NewShippingLine(details)
		if err != nil {
			return IngestOrderResult{}, err
		}
		if err = o.AddShippingLine(line); err != nil {
			return IngestOrderResult{}, err
		}
		shippingLines = append(shippingLines, line)
	}
	if err = orders.AddShippingLines(ctx, o.ID(), shippingLines); err != nil {
		return IngestOrderResult{}, err
	}

	orderAudit, err := order.NewOrderStatusAudit(o.ID(), order.StatusPending, actor, order.IngestedOrderNote, nil, now)
	if err != nil {
		return IngestOrderResult{}, err
	}
	if err = audits.AddOrderAudit(ctx, orderAudit); err != nil {
		return IngestOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return IngestOrderResult{}, err
	}

	result.Order = o
	result.OrderAuditID = orderAudit.ID()

	h.logger.InfoContext(ctx, "order ingested",
		"order_id", o.ID(),
		"order_number", o.OrderNumber(),
		"line_items", len(o.LineItems()),
	)
	return result, nil
}

func (h *IngestOrderCommandHandler) addAddress(
	ctx context.Context,
	customers ports.CustomerRepository,
	customerID int64,
	details customer.AddressDetails,
) (int64, error) {
	address, err := customer.NewAddress(customerID, details)
	if err != nil {
		return 0, err
	}
	if err = customers.AddAddress(ctx, address); err != nil {
		return 0, err
	}
	return address.ID(), nil
}
