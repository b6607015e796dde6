package main

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// openEngine opens the DuckDB engine and applies the configured settings.
// An empty database path runs fully in-memory; the whole batch is rebuilt
// on every run so nothing needs to survive the process.
func openEngine(cfg *Config) (*sql.DB, error) {
	db, err := sql.Open("duckdb", cfg.Engine.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DuckDB: %w", err)
	}

	if cfg.Engine.MemoryLimit != "" {
		limit := fmt.Sprintf("SET memory_limit = '%s'", sqlEscape(cfg.Engine.MemoryLimit))
		if _, err := db.Exec(limit); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set memory limit: %w", err)
		}
	}

	if cfg.Engine.Threads > 0 {
		if _, err := db.Exec(fmt.Sprintf("SET threads = %d", cfg.Engine.Threads)); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set thread count: %w", err)
		}
	}

	// Remote inputs go through the httpfs extension
	if needsHTTPFS(cfg) {
		if _, err := db.Exec("INSTALL httpfs"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to install httpfs extension: %w", err)
		}
		if _, err := db.Exec("LOAD httpfs"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to load httpfs extension: %w", err)
		}
	}

	return db, nil
}

// needsHTTPFS reports whether any path the engine reads or writes is
// remote. The output directory counts: COPY needs the extension too.
func needsHTTPFS(cfg *Config) bool {
	for _, path := range []string{cfg.Data.ImmigrationPath, cfg.Data.DemographicsPath, cfg.Data.OutputDir} {
		if strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
			return true
		}
	}
	return false
}

// sqlEscape doubles single quotes for interpolation into SQL string
// literals. Paths and settings come from the operator's config file, not
// from data, but quoting still has to be correct.
func sqlEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
