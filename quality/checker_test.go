package quality

import (
	"strings"
	"testing"
)

var outputTables = []string{
	"fact_immigrations",
	"dim_city_demographics",
	"dim_country",
	"dim_us_state",
	"dim_ports",
	"dim_travel_mode",
	"dim_visa_category",
}

func TestDefaultChecks_Coverage(t *testing.T) {
	checks := DefaultChecks(outputTables)

	// one non-empty check per table, five FK checks, birth year, port grain
	want := len(outputTables) + 5 + 2
	if len(checks) != want {
		t.Fatalf("expected %d checks, got %d", want, len(checks))
	}

	byName := make(map[string]Check, len(checks))
	for _, c := range checks {
		byName[c.Name] = c
	}

	for _, table := range outputTables {
		name := "non_empty_" + table
		c, ok := byName[name]
		if !ok {
			t.Errorf("missing check %s", name)
			continue
		}
		if !strings.Contains(c.Query, "FROM "+table) {
			t.Errorf("%s queries wrong table:\n%s", name, c.Query)
		}
	}
}

func TestDefaultChecks_BirthYearBounds(t *testing.T) {
	checks := DefaultChecks(outputTables)

	var birthYear Check
	for _, c := range checks {
		if c.Name == "birth_year_in_range" {
			birthYear = c
		}
	}
	if birthYear.Query == "" {
		t.Fatal("missing birth_year_in_range check")
	}

	for _, fragment := range []string{
		"birth_year < 1900",
		"birth_year > 2016",
		"fact_immigrations",
	} {
		if !strings.Contains(birthYear.Query, fragment) {
			t.Errorf("expected query to contain %q:\n%s", fragment, birthYear.Query)
		}
	}
}

func TestDefaultChecks_ForeignKeys(t *testing.T) {
	checks := DefaultChecks(outputTables)

	expectations := []struct {
		name     string
		contains []string
	}{
		{"fk_origin_country_code", []string{"dim_country", "country_code = f.origin_country_code"}},
		{"fk_port_code", []string{"dim_ports", "port_code = f.port_code"}},
		{"fk_us_state_code", []string{"dim_us_state", "state_code = f.us_state_code"}},
		{"fk_travel_mode_code", []string{"dim_travel_mode", "mode_id = f.travel_mode_code"}},
		{"fk_visa_category_code", []string{"dim_visa_category", "visa_category_id = f.visa_category_code"}},
	}

	byName := make(map[string]Check, len(checks))
	for _, c := range checks {
		byName[c.Name] = c
	}

	for _, exp := range expectations {
		c, ok := byName[exp.name]
		if !ok {
			t.Errorf("missing check %s", exp.name)
			continue
		}
		for _, fragment := range exp.contains {
			if !strings.Contains(c.Query, fragment) {
				t.Errorf("%s: expected query to contain %q:\n%s", exp.name, fragment, c.Query)
			}
		}
	}
}

func TestFailed(t *testing.T) {
	results := []Result{
		{Name: "non_empty_fact_immigrations", Failures: 0, Passed: true},
		{Name: "fk_port_code", Failures: 12, Passed: false},
		{Name: "birth_year_in_range", Failures: 3, Passed: false},
	}

	failed := Failed(results)
	if len(failed) != 2 {
		t.Fatalf("expected 2 failed checks, got %d: %v", len(failed), failed)
	}
	if failed[0] != "fk_port_code" || failed[1] != "birth_year_in_range" {
		t.Errorf("unexpected failed list: %v", failed)
	}
}
