package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes the Prometheus scrape endpoint. When OpenTelemetry
// metrics are enabled its Prometheus exporter feeds the same registry.
func MetricsHandler(custom http.Handler) http.Handler {
	if custom != nil {
		return custom
	}
	return promhttp.Handler()
}
