// Package quality runs the post-build acceptance checks on the star schema
// and verifies the persisted Parquet output.
package quality

import (
	"context"
	"database/sql"
	"fmt"
)

// Check is a single acceptance check. Query must return one row with a
// single BIGINT column: the number of violating rows. Zero passes.
type Check struct {
	Name  string
	Query string
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Failures int64
	Passed   bool
}

// Checker executes acceptance checks against the engine.
type Checker struct {
	db *sql.DB
}

// NewChecker creates a checker bound to an open engine connection.
func NewChecker(db *sql.DB) *Checker {
	return &Checker{db: db}
}

// Run executes all checks and returns every result. A failing check is not
// an error; errors are reserved for the engine refusing a query.
func (c *Checker) Run(ctx context.Context, checks []Check) ([]Result, error) {
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		var failures int64
		if err := c.db.QueryRowContext(ctx, check.Query).Scan(&failures); err != nil {
			return nil, fmt.Errorf("check %s failed to execute: %w", check.Name, err)
		}
		results = append(results, Result{
			Name:     check.Name,
			Failures: failures,
			Passed:   failures == 0,
		})
	}
	return results, nil
}

// Failed returns the names of failing checks.
func Failed(results []Result) []string {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r.Name)
		}
	}
	return failed
}

// foreignKey describes one fact-table code column and the dimension it
// must resolve against.
type foreignKey struct {
	column    string
	dimension string
	key       string
}

var factForeignKeys = []foreignKey{
	{"origin_country_code", "dim_country", "country_code"},
	{"port_code", "dim_ports", "port_code"},
	{"us_state_code", "dim_us_state", "state_code"},
	{"travel_mode_code", "dim_travel_mode", "mode_id"},
	{"visa_category_code", "dim_visa_category", "visa_category_id"},
}

// DefaultChecks builds the acceptance checks for the produced tables:
// non-empty tables, birth years inside the valid range, referential
// integrity of every fact foreign key, and one demographics row per port.
func DefaultChecks(tables []string) []Check {
	var checks []Check

	for _, table := range tables {
		checks = append(checks, Check{
			Name: fmt.Sprintf("non_empty_%s", table),
			Query: fmt.Sprintf(
				"SELECT CASE WHEN count(*) = 0 THEN 1 ELSE 0 END FROM %s", table),
		})
	}

	checks = append(checks, Check{
		Name: "birth_year_in_range",
		Query: "SELECT count(*) FROM fact_immigrations " +
			"WHERE birth_year IS NOT NULL AND (birth_year < 1900 OR birth_year > 2016)",
	})

	for _, fk := range factForeignKeys {
		checks = append(checks, Check{
			Name: fmt.Sprintf("fk_%s", fk.column),
			Query: fmt.Sprintf(
				"SELECT count(*) FROM fact_immigrations f LEFT JOIN %s d ON d.%s = f.%s WHERE d.%s IS NULL",
				fk.dimension, fk.key, fk.column, fk.key),
		})
	}

	checks = append(checks, Check{
		Name: "city_demographics_unique_per_port",
		Query: "SELECT count(*) FROM (" +
			"SELECT port_code FROM dim_city_demographics GROUP BY port_code HAVING count(*) > 1)",
	})

	return checks
}
