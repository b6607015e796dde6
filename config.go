package main

import (
	"fmt"
	"os"

	"github.com/withObsrvr/i94-lake-etl/manifest"
	"gopkg.in/yaml.v3"
)

// Config is the full pipeline configuration loaded from YAML.
type Config struct {
	Service struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
	} `yaml:"service"`

	Data struct {
		// ImmigrationPath is a file path or glob; one file per month.
		ImmigrationPath string `yaml:"immigration_path"`
		// ImmigrationFormat selects the reader: "csv" or "parquet".
		ImmigrationFormat string `yaml:"immigration_format"`
		DemographicsPath  string `yaml:"demographics_path"`
		SASLabelsPath     string `yaml:"sas_labels_path"`
		OutputDir         string `yaml:"output_dir"`
	} `yaml:"data"`

	Engine struct {
		// DatabasePath is the DuckDB database file; empty runs in-memory.
		DatabasePath string `yaml:"database_path"`
		MemoryLimit  string `yaml:"memory_limit"`
		Threads      int    `yaml:"threads"`
	} `yaml:"engine"`

	Output struct {
		// Compression codec for Parquet files: zstd, snappy, gzip or none.
		Compression string `yaml:"compression"`
	} `yaml:"output"`

	Quality struct {
		// VerifyParquet re-opens written files and checks footer row counts.
		VerifyParquet bool `yaml:"verify_parquet"`
	} `yaml:"quality"`

	Manifest manifest.Config `yaml:"manifest"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// LoadConfig loads the pipeline configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// ApplyDefaults fills unset fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = "i94-lake-etl"
	}
	if c.Service.Environment == "" {
		c.Service.Environment = "development"
	}
	if c.Data.ImmigrationFormat == "" {
		c.Data.ImmigrationFormat = "csv"
	}
	if c.Output.Compression == "" {
		c.Output.Compression = "zstd"
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = 8088
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Manifest.Dir == "" {
		c.Manifest.Dir = c.Data.OutputDir
	}
}

// Validate checks that required fields are present and consistent.
func (c *Config) Validate() error {
	if c.Data.ImmigrationPath == "" {
		return fmt.Errorf("data.immigration_path is required")
	}
	if c.Data.DemographicsPath == "" {
		return fmt.Errorf("data.demographics_path is required")
	}
	if c.Data.SASLabelsPath == "" {
		return fmt.Errorf("data.sas_labels_path is required")
	}
	if c.Data.OutputDir == "" {
		return fmt.Errorf("data.output_dir is required")
	}

	switch c.Data.ImmigrationFormat {
	case "csv", "parquet":
	default:
		return fmt.Errorf("data.immigration_format must be csv or parquet, got %q", c.Data.ImmigrationFormat)
	}

	switch c.Output.Compression {
	case "zstd", "snappy", "gzip", "none":
	default:
		return fmt.Errorf("output.compression must be zstd, snappy, gzip or none, got %q", c.Output.Compression)
	}

	if c.Engine.Threads < 0 {
		return fmt.Errorf("engine.threads must not be negative")
	}

	return nil
}
