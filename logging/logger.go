// Package logging wraps zerolog with pipeline-specific helpers so every
// stage logs the same structured fields.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentLogger provides structured logging for ETL components
type ComponentLogger struct {
	logger zerolog.Logger
}

// NewComponentLogger creates a component-specific logger with consistent context.
// Level and format come from configuration; unknown values fall back to info/json.
func NewComponentLogger(componentName, version, level, format string) *ComponentLogger {
	zerolog.TimeFieldFormat = time.RFC3339

	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Console output for local runs, JSON everywhere else
	if strings.ToLower(format) == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    false,
		})
	}

	logger := log.With().
		Str("component", componentName).
		Str("version", version).
		Logger()

	return &ComponentLogger{
		logger: logger,
	}
}

func (cl *ComponentLogger) Info() *zerolog.Event {
	return cl.logger.Info()
}

func (cl *ComponentLogger) Error() *zerolog.Event {
	return cl.logger.Error()
}

func (cl *ComponentLogger) Warn() *zerolog.Event {
	return cl.logger.Warn()
}

func (cl *ComponentLogger) Debug() *zerolog.Event {
	return cl.logger.Debug()
}

// LogStartup logs pipeline startup with structured fields
func (cl *ComponentLogger) LogStartup(config StartupConfig) {
	cl.Info().
		Str("immigration_format", config.ImmigrationFormat).
		Str("output_dir", config.OutputDir).
		Str("engine_database", config.EngineDatabase).
		Int("engine_threads", config.EngineThreads).
		Bool("metrics_enabled", config.MetricsEnabled).
		Msg("Starting ETL pipeline")
}

// LogStageComplete logs the completion of a pipeline stage
func (cl *ComponentLogger) LogStageComplete(stage string, duration time.Duration) {
	cl.Info().
		Str("stage", stage).
		Dur("duration", duration).
		Msg("Stage completed")
}

// LogTableWritten logs a persisted output table
func (cl *ComponentLogger) LogTableWritten(table string, rows int64, partitionBy []string) {
	cl.Info().
		Str("table", table).
		Int64("rows", rows).
		Strs("partition_by", partitionBy).
		Msg("Table written")
}

// LogQualityCheck logs a single acceptance check result
func (cl *ComponentLogger) LogQualityCheck(name string, passed bool, failures int64) {
	var event *zerolog.Event
	if passed {
		event = cl.logger.Info()
	} else {
		event = cl.logger.Error()
	}
	event.
		Str("check", name).
		Bool("passed", passed).
		Int64("failures", failures).
		Msg("Quality check")
}

// LogRunSummary logs end-of-run totals
func (cl *ComponentLogger) LogRunSummary(tables int, totalRows int64, duration time.Duration) {
	cl.Info().
		Int("tables", tables).
		Int64("total_rows", totalRows).
		Dur("duration", duration).
		Msg("Pipeline run completed")
}

// StartupConfig represents pipeline startup configuration
type StartupConfig struct {
	ImmigrationFormat string
	OutputDir         string
	EngineDatabase    string
	EngineThreads     int
	MetricsEnabled    bool
}
