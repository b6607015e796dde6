package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/withObsrvr/i94-lake-etl/labels"
	"github.com/withObsrvr/i94-lake-etl/logging"
	"github.com/withObsrvr/i94-lake-etl/manifest"
	"github.com/withObsrvr/i94-lake-etl/quality"
)

// Pipeline runs the batch end to end: load, clean, derive, check, write,
// finalize. Every transformation is a declarative statement handed to the
// engine; the pipeline itself is a straight line.
type Pipeline struct {
	db      *sql.DB
	config  *Config
	logger  *logging.ComponentLogger
	metrics *pipelineMetrics

	// rowCounts collects per-table row counts from the write stage for
	// the run summary and the manifest.
	rowCounts map[string]int64
}

// NewPipeline creates a pipeline bound to an open engine.
func NewPipeline(db *sql.DB, config *Config, logger *logging.ComponentLogger, metrics *pipelineMetrics) *Pipeline {
	return &Pipeline{
		db:        db,
		config:    config,
		logger:    logger,
		metrics:   metrics,
		rowCounts: make(map[string]int64),
	}
}

// Run executes all pipeline stages in order. The first failing stage
// aborts the whole batch; there is no partial success.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()

	stages := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"load", p.load},
		{"clean", p.clean},
		{"derive", p.derive},
		{"check", p.check},
		{"write", p.write},
		{"finalize", p.finalize},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline cancelled before stage %s: %w", stage.name, err)
		}

		stageStart := time.Now()
		if err := stage.fn(ctx); err != nil {
			return fmt.Errorf("stage %s failed: %w", stage.name, err)
		}

		elapsed := time.Since(stageStart)
		p.metrics.stageDuration.WithLabelValues(stage.name).Set(elapsed.Seconds())
		p.logger.LogStageComplete(stage.name, elapsed)
	}

	var totalRows int64
	for _, rows := range p.rowCounts {
		totalRows += rows
	}
	p.metrics.runSuccess.Set(1)
	p.logger.LogRunSummary(len(p.rowCounts), totalRows, time.Since(start))

	return nil
}

// load registers the staging relations: file-backed views for the two raw
// datasets and label tables for the five reference dimensions.
func (p *Pipeline) load(ctx context.Context) error {
	immigrationSQL, err := immigrationStagingSQL(p.config.Data.ImmigrationFormat, p.config.Data.ImmigrationPath)
	if err != nil {
		return err
	}
	if _, err := p.db.ExecContext(ctx, immigrationSQL); err != nil {
		return fmt.Errorf("failed to register immigration staging view: %w", err)
	}

	if _, err := p.db.ExecContext(ctx, demographicsStagingSQL(p.config.Data.DemographicsPath)); err != nil {
		return fmt.Errorf("failed to register demographics staging view: %w", err)
	}

	labelsFile, err := labels.Load(p.config.Data.SASLabelsPath)
	if err != nil {
		return err
	}

	sections := []struct {
		label      string
		table      string
		codeColumn string
		nameColumn string
	}{
		{labels.Countries, stagingCountries, "country_code", "country_name"},
		{labels.Ports, stagingPorts, "port_code", "port_name"},
		{labels.States, stagingStates, "state_code", "state_name"},
		{labels.TravelModes, stagingTravelModes, "mode_id", "mode_name"},
		{labels.VisaCategories, stagingVisas, "visa_category_id", "visa_category"},
	}

	for _, section := range sections {
		pairs, err := labelsFile.Section(section.label)
		if err != nil {
			return err
		}
		for _, stmt := range labelTableSQL(section.table, section.codeColumn, section.nameColumn, pairs) {
			if _, err := p.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to load %s labels: %w", section.label, err)
			}
		}
		p.metrics.rowsLoaded.WithLabelValues(section.table).Set(float64(len(pairs)))
	}

	for _, staging := range []string{stagingImmigration, stagingDemographics} {
		rows, err := p.tableCount(ctx, staging)
		if err != nil {
			return err
		}
		p.metrics.rowsLoaded.WithLabelValues(staging).Set(float64(rows))
		p.logger.Info().
			Str("dataset", staging).
			Int64("rows", rows).
			Msg("Dataset staged")
	}

	return nil
}

// clean creates the cleaning views for every dataset.
func (p *Pipeline) clean(ctx context.Context) error {
	statements := []string{
		cleanImmigrationSQL(),
		cleanDemographicsSQL(),
		cleanPortsSQL(),
		cleanCountriesSQL(),
		cleanStatesSQL(),
		travelModeSQL(),
		visaCategorySQL(),
	}
	for _, stmt := range statements {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create cleaning view: %w", err)
		}
	}
	return nil
}

// derive builds the fact table and the city demographics dimension.
func (p *Pipeline) derive(ctx context.Context) error {
	for _, stmt := range []string{factImmigrationsSQL(), cityDemographicsSQL()} {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to build star schema view: %w", err)
		}
	}
	return nil
}

// check runs the acceptance checks. Failures are reported and fail the
// batch; nothing is retried.
func (p *Pipeline) check(ctx context.Context) error {
	tables := make([]string, 0, len(outputTables))
	for _, table := range outputTables {
		tables = append(tables, table.Name)
	}

	checker := quality.NewChecker(p.db)
	results, err := checker.Run(ctx, quality.DefaultChecks(tables))
	if err != nil {
		return err
	}

	for _, result := range results {
		p.logger.LogQualityCheck(result.Name, result.Passed, result.Failures)
		if !result.Passed {
			p.metrics.checkFailures.Inc()
		}
	}

	if failed := quality.Failed(results); len(failed) > 0 {
		return fmt.Errorf("quality checks failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

// write persists every output table as a directory of Parquet files.
func (p *Pipeline) write(ctx context.Context) error {
	if err := os.MkdirAll(p.config.Data.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, table := range outputTables {
		rows, err := p.tableCount(ctx, table.Name)
		if err != nil {
			return err
		}

		copySQL := copyTableSQL(table, p.config.Data.OutputDir, p.config.Output.Compression)
		if _, err := p.db.ExecContext(ctx, copySQL); err != nil {
			return fmt.Errorf("failed to write table %s: %w", table.Name, err)
		}

		p.rowCounts[table.Name] = rows
		p.metrics.rowsWritten.WithLabelValues(table.Name).Set(float64(rows))
		p.logger.LogTableWritten(table.Name, rows, table.PartitionBy)
	}

	return nil
}

// finalize re-reads the written Parquet footers and emits the run manifest.
func (p *Pipeline) finalize(ctx context.Context) error {
	tableManifests := make([]manifest.TableManifest, 0, len(outputTables))

	for _, table := range outputTables {
		tm := manifest.TableManifest{
			Name:     table.Name,
			RowCount: p.rowCounts[table.Name],
		}

		if p.config.Quality.VerifyParquet {
			stats, err := quality.VerifyOutput(filepath.Join(p.config.Data.OutputDir, table.Name))
			if err != nil {
				return err
			}
			if stats.Rows != tm.RowCount {
				return fmt.Errorf("table %s: engine reported %d rows but parquet footers hold %d",
					table.Name, tm.RowCount, stats.Rows)
			}
			tm.ByteSize = stats.Bytes
			tm.FileCount = stats.Files
		}

		tableManifests = append(tableManifests, tm)
	}

	if !p.config.Manifest.Enabled {
		return nil
	}

	builder := manifest.NewBuilder(version, p.config.Manifest.Dir)
	m, err := builder.Build(tableManifests)
	if err != nil {
		return err
	}
	path, err := builder.Write(m)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("path", path).
		Int64("total_rows", m.TotalRows).
		Str("checksum", m.Checksum).
		Msg("Run manifest written")

	return nil
}

func (p *Pipeline) tableCount(ctx context.Context, table string) (int64, error) {
	var count int64
	if err := p.db.QueryRowContext(ctx, fmt.Sprintf("SELECT count(*) FROM %s", table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
