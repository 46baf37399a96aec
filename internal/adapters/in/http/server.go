package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"fulfillment/internal/core/application/intake"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type (
	PayloadIngester interface {
		Handle(ctx context.Context, cmd commands.IngestPayloadCommand) (commands.IngestPayloadResult, error)
	}

	OrderStatusRecorder interface {
		Handle(ctx context.Context, cmd commands.RecordOrderStatusCommand) (*order.OrderStatusAudit, error)
	}

	LineItemStatusRecorder interface {
		Handle(ctx context.Context, cmd commands.RecordLineItemStatusCommand) (*order.LineItemStatusAudit, error)
	}

	OrderHistoryReader interface {
		Handle(ctx context.Context, query queries.GetOrderStatusHistoryQuery) ([]queries.StatusHistoryEntry, error)
	}

	LineItemHistoryReader interface {
		Handle(ctx context.Context, query queries.GetLineItemStatusHistoryQuery) ([]queries.StatusHistoryEntry, error)
	}
)

// Server implements ServerInterface on top of the application use cases.
type Server struct {
	// Command handlers
	ingestHandler         PayloadIngester
	orderStatusHandler    OrderStatusRecorder
	lineItemStatusHandler LineItemStatusRecorder

	// Query handlers
	orderHistoryHandler    OrderHistoryReader
	lineItemHistoryHandler LineItemHistoryReader

	metrics *Metrics
	logger  *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates the server. metrics may be nil.
func NewServer(
	ingestHandler PayloadIngester,
	orderStatusHandler OrderStatusRecorder,
	lineItemStatusHandler LineItemStatusRecorder,
	orderHistoryHandler OrderHistoryReader,
	lineItemHistoryHandler LineItemHistoryReader,
	metrics *Metrics,
	logger *slog.Logger,
) *Server {
	return &Server{
		ingestHandler:          ingestHandler,
		orderStatusHandler:     orderStatusHandler,
		lineItemStatusHandler:  lineItemStatusHandler,
		orderHistoryHandler:    orderHistoryHandler,
		lineItemHistoryHandler: lineItemHistoryHandler,
		metrics:                metrics,
		logger:                 logger.With("component", "HTTPServer"),
	}
}

// IngestOrder handles POST /api/v1/webhooks/orders. The raw body is handed over
// unchanged so that it can be staged before it is parsed.
func (s *Server) IngestOrder(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Message: "Failed to read request body"})
	}

	cmd, err := commands.NewIngestPayloadCommand(body, time.Now())
	if err != nil {
		return ctx.JSON(http.StatusUnprocessableEntity, Error{Message: err.Error(), Field: "payload"})
	}

	result, err := s.ingestHandler.Handle(ctx.Request().Context(), cmd)
	if result.State != "" {
		s.metrics.observeIngestion(result.State)
	}

	switch {
	case err == nil:
		return ctx.JSON(http.StatusCreated, ingestedOrderFromResult(result.Ingested))
	case errors.Is(err, commands.ErrOrderAlreadyIngested):
		return ctx.JSON(http.StatusOK, AlreadyIngested{Status: "already_ingested", OrderNumber: orderNumberOf(err)})
	case commands.IsValidationError(err):
		response := Error{Message: err.Error()}
		var payloadErr *intake.PayloadError
		if errors.As(err, &payloadErr) {
			response.Field = payloadErr.Field
		}
		return ctx.JSON(http.StatusUnprocessableEntity, response)
	default:
		s.logger.ErrorContext(ctx.Request().Context(), "order ingestion failed", "error", err.Error())
		return ctx.JSON(http.StatusInternalServerError, Error{Message: "Failed to ingest order"})
	}
}

func orderNumberOf(err error) string {
	var existsErr *errs.ObjectAlreadyExistsError
	if errors.As(err, &existsErr) {
		if number, ok := existsErr.Value.(string); ok {
			return number
		}
	}
	return ""
}

// RecordOrderStatus handles POST /api/v1/orders/{orderId}/status.
func (s *Server) RecordOrderStatus(ctx echo.Context, orderID int64) error {
	var change StatusChange
	if err := ctx.Bind(&change); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Message: "Invalid request body"})
	}

	status, err := order.ParseStatus(change.Status)
	if err != nil {
		return ctx.JSON(http.StatusUnprocessableEntity, Error{Message: err.Error(), Field: "status"})
	}

	cmd, err := commands.NewRecordOrderStatusCommand(orderID, status, change.Actor, change.Notes, change.Metadata)
	if err != nil {
		return ctx.JSON(http.StatusUnprocessableEntity, Error{Message: err.Error()})
	}

	audit, err := s.orderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.statusError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderAuditResponse(audit))
}

// RecordLineItemStatus handles POST /api/v1/line-items/{lineItemId}/status.
func (s *Server) RecordLineItemStatus(ctx echo.Context, lineItemID int64) error {
	var change StatusChange
	if err := ctx.Bind(&change); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Message: "Invalid request body"})
	}

	status, err := order.ParseLineItemStatus(change.Status)
	if err != nil {
		return ctx.JSON(http.StatusUnprocessableEntity, Error{Message: err.Error(), Field: "status"})
	}

	cmd, err := commands.NewRecordLineItemStatusCommand(lineItemID, status, change.Actor, change.Notes, change.Metadata)
	if err != nil {
		return ctx.JSON(http.StatusUnprocessableEntity, Error{Message: err.Error()})
	}

	audit, err := s.lineItemStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.statusError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, lineItemAuditResponse(audit))
}

func (s *Server) statusError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{Message: err.Error()})
	case commands.IsValidationError(err):
		return ctx.JSON(http.StatusUnprocessableEntity, Error{Message: err.Error()})
	default:
		s.logger.ErrorContext(ctx.Request().Context(), "status change failed", "error", err.Error())
		return ctx.JSON(http.StatusInternalServerError, Error{Message: "Failed to record status"})
	}
}

// GetOrderStatusHistory handles GET /api/v1/orders/{orderId}/status-history.
func (s *Server) GetOrderStatusHistory(ctx echo.Context, orderID int64) error {
	query, err := queries.NewGetOrderStatusHistoryQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusUnprocessableEntity, Error{Message: err.Error()})
	}

	entries, err := s.orderHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{Message: "Failed to retrieve status history"})
	}

	return ctx.JSON(http.StatusOK, historyResponse(entries))
}

// GetLineItemStatusHistory handles GET /api/v1/line-items/{lineItemId}/status-history.
func (s *Server) GetLineItemStatusHistory(ctx echo.Context, lineItemID int64) error {
	query, err := queries.NewGetLineItemStatusHistoryQuery(lineItemID)
	if err != nil {
		return ctx.JSON(http.StatusUnprocessableEntity, Error{Message: err.Error()})
	}

	entries, err := s.lineItemHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{Message: "Failed to retrieve status history"})
	}

	return ctx.JSON(http.StatusOK, historyResponse(entries))
}
