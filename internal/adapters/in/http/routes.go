package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the operations of api/openapi.yaml.
type ServerInterface interface {
	// (POST /api/v1/webhooks/orders)
	IngestOrder(ctx echo.Context) error
	// (POST /api/v1/orders/{orderId}/status)
	RecordOrderStatus(ctx echo.Context, orderID int64) error
	// (GET /api/v1/orders/{orderId}/status-history)
	GetOrderStatusHistory(ctx echo.Context, orderID int64) error
	// (POST /api/v1/line-items/{lineItemId}/status)
	RecordLineItemStatus(ctx echo.Context, lineItemID int64) error
	// (GET /api/v1/line-items/{lineItemId}/status-history)
	GetLineItemStatusHistory(ctx echo.Context, lineItemID int64) error
}

// EchoRouter is the part of *echo.Echo and *echo.Group the routes need.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// serverWrapper converts echo contexts to typed parameters.
type serverWrapper struct {
	handler ServerInterface
}

func (w *serverWrapper) IngestOrder(ctx echo.Context) error {
	return w.handler.IngestOrder(ctx)
}

func (w *serverWrapper) RecordOrderStatus(ctx echo.Context) error {
	orderID, err := bindID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.handler.RecordOrderStatus(ctx, orderID)
}

func (w *serverWrapper) GetOrderStatusHistory(ctx echo.Context) error {
	orderID, err := bindID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.handler.GetOrderStatusHistory(ctx, orderID)
}

func (w *serverWrapper) RecordLineItemStatus(ctx echo.Context) error {
	lineItemID, err := bindID(ctx, "lineItemId")
	if err != nil {
		return err
	}
	return w.handler.RecordLineItemStatus(ctx, lineItemID)
}

func (w *serverWrapper) GetLineItemStatusHistory(ctx echo.Context) error {
	lineItemID, err := bindID(ctx, "lineItemId")
	if err != nil {
		return err
	}
	return w.handler.GetLineItemStatusHistory(ctx, lineItemID)
}

func bindID(ctx echo.Context, name string) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// RegisterHandlers mounts every operation on router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	wrapper := serverWrapper{handler: si}

	router.POST("/api/v1/webhooks/orders", wrapper.IngestOrder)
	router.POST("/api/v1/orders/:orderId/status", wrapper.RecordOrderStatus)
	router.GET("/api/v1/orders/:orderId/status-history", wrapper.GetOrderStatusHistory)
	router.POST("/api/v1/line-items/:lineItemId/status", wrapper.RecordLineItemStatus)
	router.GET("/api/v1/line-items/:lineItemId/status-history", wrapper.GetLineItemStatusHistory)
}
