package quality

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// OutputStats summarizes the Parquet files found under one table directory.
type OutputStats struct {
	Files int
	Rows  int64
	Bytes int64
}

// VerifyOutput walks a written table directory, reads the footer of every
// Parquet file and sums row counts and byte sizes. It does not scan row
// data; the footer metadata is enough to confirm the table landed.
func VerifyOutput(dir string) (OutputStats, error) {
	var stats OutputStats

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".parquet") {
			return nil
		}

		rows, size, err := parquetFileRows(path)
		if err != nil {
			return fmt.Errorf("invalid parquet file %s: %w", path, err)
		}

		stats.Files++
		stats.Rows += rows
		stats.Bytes += size
		return nil
	})
	if err != nil {
		return OutputStats{}, fmt.Errorf("failed to verify output %s: %w", dir, err)
	}

	if stats.Files == 0 {
		return OutputStats{}, fmt.Errorf("no parquet files written under %s", dir)
	}
	return stats, nil
}

func parquetFileRows(path string) (rows, size int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, 0, err
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return 0, 0, err
	}
	return pf.NumRows(), info.Size(), nil
}
