package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodySize caps webhook bodies.
const maxBodySize = "2M"

// NewRouter mounts the API, /health and /metrics, which exposes gatherer.
func NewRouter(server ServerInterface, metrics *Metrics, gatherer prometheus.Gatherer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxBodySize))
	if metrics != nil {
		e.Use(metrics.Middleware)
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	RegisterHandlers(e, server)
	return e
}
