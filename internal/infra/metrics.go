package infra

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nexus_stream_frames_received_total",
		Help: "Total number of frames received from the price feed",
	})

	TicksApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nexus_stream_ticks_applied_total",
		Help: "Total number of price ticks dispatched to the store",
	})

	TicksRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nexus_stream_ticks_rejected_total",
		Help: "Total number of tick entries that failed numeric parsing",
	})

	Reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nexus_stream_reconnects_total",
		Help: "Total number of scheduled reconnect attempts",
	})

	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_fetch_errors_total",
		Help: "Total number of snapshot fetch failures",
	}, []string{"domain"})
)

// StartMetricsServer serves Prometheus metrics on a localhost-only
// debug listener, alongside pprof. This is a developer surface, not a
// product endpoint.
func StartMetricsServer(addr string) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		slog.Info("Metrics server started", slog.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("Metrics server failed", slog.Any("error", err))
		}
	}()
}
