// Package observability exposes Prometheus metrics for provider calls and file extraction.
package observability

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"nerachat/internal/llmclient"
)

var (
	providerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nerachat_provider_requests_total",
			Help: "Outbound provider requests by endpoint and HTTP status (0 = no response).",
		},
		[]string{"provider", "endpoint", "status"},
	)

	providerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nerachat_provider_request_duration_seconds",
			Help:    "Latency of outbound provider requests.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "endpoint"},
	)

	fileExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nerachat_file_extractions_total",
			Help: "Uploaded file extractions by detected format and outcome.",
		},
		[]string{"format", "outcome"},
	)
)

// NewPrometheusHooks returns llmclient hooks that record request counts and latency.
func NewPrometheusHooks() llmclient.Hooks {
	return llmclient.Hooks{
		OnRequestEnd: func(_ context.Context, info llmclient.RequestInfo) {
			providerRequests.WithLabelValues(info.Provider, info.Endpoint, strconv.Itoa(info.StatusCode)).Inc()
			providerDuration.WithLabelValues(info.Provider, info.Endpoint).Observe(info.Duration.Seconds())
		},
	}
}

// RecordExtraction counts one file extraction.
func RecordExtraction(format string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "diagnostic"
	}
	fileExtractions.WithLabelValues(format, outcome).Inc()
}
