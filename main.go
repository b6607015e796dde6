package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/withObsrvr/i94-lake-etl/logging"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "capstone.yaml", "Path to configuration file")
	flag.Parse()

	config, err := LoadConfig(*configPath)
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.NewComponentLogger(config.Service.Name, version, config.Logging.Level, config.Logging.Format)
	logger.LogStartup(logging.StartupConfig{
		ImmigrationFormat: config.Data.ImmigrationFormat,
		OutputDir:         config.Data.OutputDir,
		EngineDatabase:    config.Engine.DatabasePath,
		EngineThreads:     config.Engine.Threads,
		MetricsEnabled:    config.Metrics.Enabled,
	})

	db, err := openEngine(config)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open engine")
		os.Exit(1)
	}
	defer db.Close()

	metrics := newPipelineMetrics()

	var server *metricsServer
	if config.Metrics.Enabled {
		server = newMetricsServer(config.Metrics.Port, metrics, logger)
		server.Start()
		defer server.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline := NewPipeline(db, config, logger, metrics)
	if err := pipeline.Run(ctx); err != nil {
		metrics.runSuccess.Set(0)
		logger.Error().Err(err).Msg("Pipeline run failed")
		if server != nil {
			server.Stop()
		}
		os.Exit(1)
	}
}
