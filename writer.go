package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

// tableSpec describes one persisted output table.
type tableSpec struct {
	Name        string
	PartitionBy []string
}

// outputTables lists every table the pipeline persists, in write order.
// Partition keys follow the original schema: the fact table by entry
// year/month and port, city demographics by state.
var outputTables = []tableSpec{
	{Name: factImmigrations, PartitionBy: []string{"entry_year", "entry_month", "port_code"}},
	{Name: dimCityDemographics, PartitionBy: []string{"state_code"}},
	{Name: dimCountry},
	{Name: dimUSState},
	{Name: dimPorts},
	{Name: dimTravelMode},
	{Name: dimVisaCategory},
}

// copyTableSQL builds the COPY statement that persists one table as a
// directory of Parquet files. Partitioned tables get hive-style
// key=value directories; unpartitioned ones use per-thread output so
// every table lands as a directory. OVERWRITE removes the existing
// directory contents first: each run is a full rebuild, and a partition
// absent from this run must not survive from the previous one.
func copyTableSQL(table tableSpec, outputDir, compression string) string {
	target := filepath.ToSlash(filepath.Join(outputDir, table.Name))

	options := []string{
		"FORMAT PARQUET",
		fmt.Sprintf("COMPRESSION %s", compressionCodec(compression)),
	}
	if len(table.PartitionBy) > 0 {
		options = append(options, fmt.Sprintf("PARTITION_BY (%s)", strings.Join(table.PartitionBy, ", ")))
	} else {
		options = append(options, "PER_THREAD_OUTPUT true")
	}
	options = append(options, "OVERWRITE true")

	return fmt.Sprintf("COPY (SELECT * FROM %s) TO '%s' (%s)",
		table.Name, sqlEscape(target), strings.Join(options, ", "))
}

// compressionCodec maps the config value to the engine's codec name.
// The config keeps "none" for readability; the engine only accepts
// UNCOMPRESSED.
func compressionCodec(compression string) string {
	codec := strings.ToUpper(compression)
	if codec == "NONE" {
		codec = "UNCOMPRESSED"
	}
	return codec
}
