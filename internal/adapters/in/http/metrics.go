package http

import (
	"errors"
	"strconv"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the HTTP adapter.
type Metrics struct {
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	ingestionOutcomes *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ingestionOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_ingestions_total",
				Help: "Order webhook payloads by ingestion outcome",
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{m.requestsTotal, m.requestDuration, m.ingestionOutcomes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Middleware records one sample per request, labelled with the route template.
func (m *Metrics) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
		}
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		m.requestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

func (m *Metrics) observeIngestion(state ports.StagedState) {
	if m == nil {
		return
	}
	m.ingestionOutcomes.WithLabelValues(string(state)).Inc()
}
