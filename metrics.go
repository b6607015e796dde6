package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/withObsrvr/i94-lake-etl/logging"
)

// pipelineMetrics holds the Prometheus collectors for one run.
type pipelineMetrics struct {
	registry *prometheus.Registry

	rowsLoaded    *prometheus.GaugeVec
	rowsWritten   *prometheus.GaugeVec
	stageDuration *prometheus.GaugeVec
	checkFailures prometheus.Counter
	runSuccess    prometheus.Gauge
}

func newPipelineMetrics() *pipelineMetrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &pipelineMetrics{
		registry: registry,
		rowsLoaded: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "etl_rows_loaded",
			Help: "Rows loaded into staging relations, by dataset",
		}, []string{"dataset"}),
		rowsWritten: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "etl_rows_written",
			Help: "Rows written to output tables, by table",
		}, []string{"table"}),
		stageDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "etl_stage_duration_seconds",
			Help: "Wall-clock duration of each pipeline stage",
		}, []string{"stage"}),
		checkFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "etl_quality_check_failures_total",
			Help: "Total failing acceptance checks",
		}),
		runSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "etl_run_success",
			Help: "1 when the last pipeline run completed successfully",
		}),
	}
}

// metricsServer serves /metrics and /healthz while the batch runs.
type metricsServer struct {
	server *http.Server
	logger *logging.ComponentLogger
}

func newMetricsServer(port int, m *pipelineMetrics, logger *logging.ComponentLogger) *metricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "running"})
	})

	return &metricsServer{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		logger: logger,
	}
}

// Start begins serving in the background.
func (ms *metricsServer) Start() {
	go func() {
		ms.logger.Info().
			Str("addr", ms.server.Addr).
			Msg("Metrics server listening")
		if err := ms.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ms.logger.Error().
				Err(err).
				Msg("Metrics server failed")
		}
	}()
}

// Stop shuts the server down, giving in-flight scrapes a moment to finish.
func (ms *metricsServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ms.server.Shutdown(ctx); err != nil {
		ms.logger.Warn().
			Err(err).
			Msg("Metrics server shutdown error")
	}
}
