package main

import (
	"fmt"
	"strings"

	"github.com/withObsrvr/i94-lake-etl/labels"
)

// Staging relation names. Cleaning views and the star-schema selects read
// from these, never from the raw files directly.
const (
	stagingImmigration  = "staging_immigration"
	stagingDemographics = "staging_demographics"
	stagingCountries    = "staging_countries"
	stagingPorts        = "staging_ports"
	stagingStates       = "staging_states"
	stagingTravelModes  = "staging_travel_modes"
	stagingVisas        = "staging_visa_categories"
)

// immigrationColumns is the I-94 SAS export layout. Numeric fields arrive
// as doubles ("582.0"); the cleaning view normalizes them.
var immigrationColumns = []struct {
	name string
	typ  string
}{
	{"cicid", "DOUBLE"},
	{"i94yr", "DOUBLE"},
	{"i94mon", "DOUBLE"},
	{"i94cit", "DOUBLE"},
	{"i94res", "DOUBLE"},
	{"i94port", "VARCHAR"},
	{"arrdate", "DOUBLE"},
	{"i94mode", "DOUBLE"},
	{"i94addr", "VARCHAR"},
	{"depdate", "DOUBLE"},
	{"i94bir", "DOUBLE"},
	{"i94visa", "DOUBLE"},
	{"count", "DOUBLE"},
	{"dtadfile", "VARCHAR"},
	{"visapost", "VARCHAR"},
	{"occup", "VARCHAR"},
	{"entdepa", "VARCHAR"},
	{"entdepd", "VARCHAR"},
	{"entdepu", "VARCHAR"},
	{"matflag", "VARCHAR"},
	{"biryear", "DOUBLE"},
	{"dtaddto", "VARCHAR"},
	{"gender", "VARCHAR"},
	{"insnum", "VARCHAR"},
	{"airline", "VARCHAR"},
	{"admnum", "DOUBLE"},
	{"fltno", "VARCHAR"},
	{"visatype", "VARCHAR"},
}

// demographicsColumns is the us-cities-demographics.csv layout
// (semicolon-delimited, with header).
var demographicsColumns = []struct {
	name string
	typ  string
}{
	{"city", "VARCHAR"},
	{"state", "VARCHAR"},
	{"median_age", "DOUBLE"},
	{"male_population", "INTEGER"},
	{"female_population", "INTEGER"},
	{"total_population", "INTEGER"},
	{"number_of_veterans", "INTEGER"},
	{"foreign_born", "INTEGER"},
	{"average_household_size", "DOUBLE"},
	{"state_code", "VARCHAR"},
	{"race", "VARCHAR"},
	{"count", "INTEGER"},
}

// immigrationStagingSQL builds the staging view for the immigration files.
// CSV reads get the explicit column schema; Parquet files carry their own.
func immigrationStagingSQL(format, path string) (string, error) {
	switch format {
	case "csv":
		cols := make([]string, 0, len(immigrationColumns))
		for _, c := range immigrationColumns {
			cols = append(cols, fmt.Sprintf("'%s': '%s'", c.name, c.typ))
		}
		return fmt.Sprintf(
			"CREATE OR REPLACE VIEW %s AS SELECT * FROM read_csv('%s', header = true, columns = {%s}, nullstr = '')",
			stagingImmigration, sqlEscape(path), strings.Join(cols, ", ")), nil
	case "parquet":
		return fmt.Sprintf(
			"CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet('%s')",
			stagingImmigration, sqlEscape(path)), nil
	default:
		return "", fmt.Errorf("unsupported immigration format %q", format)
	}
}

// demographicsStagingSQL builds the staging view for the demographics CSV.
func demographicsStagingSQL(path string) string {
	cols := make([]string, 0, len(demographicsColumns))
	for _, c := range demographicsColumns {
		cols = append(cols, fmt.Sprintf("'%s': '%s'", c.name, c.typ))
	}
	return fmt.Sprintf(
		"CREATE OR REPLACE VIEW %s AS SELECT * FROM read_csv('%s', delim = ';', header = true, columns = {%s}, nullstr = '')",
		stagingDemographics, sqlEscape(path), strings.Join(cols, ", "))
}

// labelTableSQL builds the DDL and the bulk VALUES insert that load one
// label section into its staging table. A single multi-row insert is the
// same pattern the lake writers use for small batches.
func labelTableSQL(table, codeColumn, nameColumn string, pairs []labels.Pair) []string {
	ddl := fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s (%s VARCHAR NOT NULL, %s VARCHAR)",
		table, codeColumn, nameColumn)

	values := make([]string, 0, len(pairs))
	for _, p := range pairs {
		values = append(values, fmt.Sprintf("('%s', '%s')", sqlEscape(p.Code), sqlEscape(p.Value)))
	}
	insert := fmt.Sprintf("INSERT INTO %s VALUES %s", table, strings.Join(values, ", "))

	return []string{ddl, insert}
}
