// Package manifest provides run metadata generation for audit and provenance.
// Each pipeline run produces a manifest file with row counts, byte sizes and
// a checksum that can be used for data verification and lineage tracking.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Manifest represents the metadata for one pipeline run.
type Manifest struct {
	// Version of the manifest schema
	Version string `json:"version"`

	// GeneratedAt is when this manifest was created
	GeneratedAt time.Time `json:"generated_at"`

	// PipelineVersion identifies the ETL binary version
	PipelineVersion string `json:"pipeline_version"`

	// Tables contains metadata for each table written
	Tables []TableManifest `json:"tables"`

	// TotalRows is the sum of all table row counts
	TotalRows int64 `json:"total_rows"`

	// TotalBytes is the sum of all table byte sizes
	TotalBytes int64 `json:"total_bytes"`

	// Checksum is SHA256 of the manifest content (excluding this field)
	Checksum string `json:"checksum"`
}

// TableManifest describes the output for a single table.
type TableManifest struct {
	// Name is the table name (e.g., "fact_immigrations")
	Name string `json:"name"`

	// RowCount is the number of rows written
	RowCount int64 `json:"row_count"`

	// ByteSize is the on-disk size in bytes (0 if unknown)
	ByteSize int64 `json:"byte_size,omitempty"`

	// FileCount is the number of Parquet files in the table directory
	FileCount int `json:"file_count,omitempty"`
}

// Config holds manifest configuration.
type Config struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"` // If empty, uses the pipeline output directory
}

// Builder creates manifests for pipeline runs.
type Builder struct {
	pipelineVersion string
	outputDir       string
}

// NewBuilder creates a new manifest builder.
func NewBuilder(pipelineVersion, outputDir string) *Builder {
	return &Builder{
		pipelineVersion: pipelineVersion,
		outputDir:       outputDir,
	}
}

// Build creates a manifest from per-table statistics.
func (b *Builder) Build(tables []TableManifest) (*Manifest, error) {
	m := &Manifest{
		Version:         "1.0",
		GeneratedAt:     time.Now().UTC(),
		PipelineVersion: b.pipelineVersion,
		Tables:          tables,
	}

	for _, t := range tables {
		m.TotalRows += t.RowCount
		m.TotalBytes += t.ByteSize
	}

	checksum, err := m.computeChecksum()
	if err != nil {
		return nil, fmt.Errorf("failed to compute manifest checksum: %w", err)
	}
	m.Checksum = checksum

	return m, nil
}

// Write persists the manifest as JSON in the configured directory and
// returns the path of the written file.
func (b *Builder) Write(m *Manifest) (string, error) {
	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create manifest directory: %w", err)
	}

	name := fmt.Sprintf("run_manifest_%s.json", m.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(b.outputDir, name)

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return path, nil
}

// computeChecksum hashes the manifest content with the Checksum field empty
// so verification can recompute it from the stored document.
func (m *Manifest) computeChecksum() (string, error) {
	clone := *m
	clone.Checksum = ""

	data, err := json.Marshal(clone)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Verify recomputes the checksum and reports whether it matches.
func (m *Manifest) Verify() (bool, error) {
	expected, err := m.computeChecksum()
	if err != nil {
		return false, err
	}
	return expected == m.Checksum, nil
}
