package main

import "fmt"

// tables.go - cleaning views and star-schema definitions, all expressed as
// declarative SQL executed by the engine. The Go side only sequences them.

// Output table names.
const (
	factImmigrations    = "fact_immigrations"
	dimCityDemographics = "dim_city_demographics"
	dimCountry          = "dim_country"
	dimUSState          = "dim_us_state"
	dimPorts            = "dim_ports"
	dimTravelMode       = "dim_travel_mode"
	dimVisaCategory     = "dim_visa_category"
)

// Valid birth year bounds; rows outside become NULL and therefore never
// reach the fact table's birth_year column with an out-of-range value.
const (
	minBirthYear = 1900
	maxBirthYear = 2016
)

// cleanImmigrationSQL normalizes the raw I-94 records:
//   - SAS day offsets (days since 1960-01-01) become DATEs,
//   - birth years outside [1900, 2016] become NULL,
//   - numeric dimension codes become VARCHAR to match the label file,
//   - exact duplicate rows are dropped.
func cleanImmigrationSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE VIEW immigration_clean AS
SELECT DISTINCT
    CAST(cicid AS BIGINT) AS cicid,
    CAST(i94yr AS INTEGER) AS entry_year,
    CAST(i94mon AS INTEGER) AS entry_month,
    CAST(CAST(i94res AS INTEGER) AS VARCHAR) AS origin_country_code,
    i94port AS port_code,
    DATE '1960-01-01' + CAST(arrdate AS INTEGER) AS arrival_date,
    CAST(CAST(i94mode AS INTEGER) AS VARCHAR) AS travel_mode_code,
    i94addr AS us_state_code,
    DATE '1960-01-01' + CAST(depdate AS INTEGER) AS departure_date,
    CAST(i94bir AS INTEGER) AS age,
    CAST(CAST(i94visa AS INTEGER) AS VARCHAR) AS visa_category_code,
    occup AS occupation,
    gender,
    CASE WHEN biryear BETWEEN %d AND %d THEN CAST(biryear AS INTEGER) END AS birth_year,
    dtaddto AS entry_date,
    airline,
    CAST(admnum AS BIGINT) AS admission_number,
    fltno AS flight_number,
    visatype AS visa_type
FROM %s`, minBirthYear, maxBirthYear, stagingImmigration)
}

// cleanDemographicsSQL drops rows with any missing field, then duplicates.
func cleanDemographicsSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE VIEW demographics_clean AS
SELECT DISTINCT *
FROM %s
WHERE city IS NOT NULL
  AND state IS NOT NULL
  AND median_age IS NOT NULL
  AND male_population IS NOT NULL
  AND female_population IS NOT NULL
  AND total_population IS NOT NULL
  AND number_of_veterans IS NOT NULL
  AND foreign_born IS NOT NULL
  AND average_household_size IS NOT NULL
  AND state_code IS NOT NULL
  AND race IS NOT NULL
  AND "count" IS NOT NULL`, stagingDemographics)
}

// cleanPortsSQL splits the port label ("city, ST") into city and state
// code, dropping entries without both parts.
func cleanPortsSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS
SELECT DISTINCT
    port_code,
    trim(split_part(port_name, ',', 1)) AS city,
    nullif(trim(split_part(port_name, ',', 2)), '') AS state_code
FROM %s
WHERE port_code IS NOT NULL
  AND nullif(trim(split_part(port_name, ',', 1)), '') IS NOT NULL
  AND nullif(trim(split_part(port_name, ',', 2)), '') IS NOT NULL`,
		dimPorts, stagingPorts)
}

// cleanCountriesSQL replaces placeholder country names with NA.
func cleanCountriesSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS
SELECT
    country_code,
    regexp_replace(country_name, '^No Country.*|INVALID.*|Collapsed.*', 'NA') AS country_name
FROM %s`, dimCountry, stagingCountries)
}

// cleanStatesSQL removes the "99" catch-all state code.
func cleanStatesSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS
SELECT state_code, state_name
FROM %s
WHERE state_code <> '99'`, dimUSState, stagingStates)
}

// travelModeSQL and visaCategorySQL pass the label sections through as
// dimensions; the label file already holds the final values.
func travelModeSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS
SELECT mode_id, mode_name
FROM %s`, dimTravelMode, stagingTravelModes)
}

func visaCategorySQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS
SELECT visa_category_id, visa_category
FROM %s`, dimVisaCategory, stagingVisas)
}

// factImmigrationsSQL joins cleaned immigration records against every
// dimension. The joins are LEFT so the engine resolves each code once; the
// WHERE clause then keeps only rows where every key resolved, which is the
// schema's referential integrity rule.
func factImmigrationsSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS
SELECT
    i.cicid,
    i.entry_year,
    i.entry_month,
    c.country_code AS origin_country_code,
    p.port_code AS port_code,
    i.arrival_date,
    m.mode_id AS travel_mode_code,
    s.state_code AS us_state_code,
    i.departure_date,
    i.age,
    v.visa_category_id AS visa_category_code,
    i.occupation,
    i.gender,
    i.birth_year,
    i.entry_date,
    i.airline,
    i.admission_number,
    i.flight_number,
    i.visa_type
FROM immigration_clean i
    LEFT JOIN %s c ON c.country_code = i.origin_country_code
    LEFT JOIN %s p ON p.port_code = i.port_code
    LEFT JOIN %s s ON s.state_code = i.us_state_code
    LEFT JOIN %s v ON v.visa_category_id = i.visa_category_code
    LEFT JOIN %s m ON m.mode_id = i.travel_mode_code
WHERE c.country_code IS NOT NULL
  AND p.port_code IS NOT NULL
  AND s.state_code IS NOT NULL
  AND m.mode_id IS NOT NULL
  AND v.visa_category_id IS NOT NULL`,
		factImmigrations, dimCountry, dimPorts, dimUSState, dimVisaCategory, dimTravelMode)
}

// cityDemographicsSQL aggregates the per-race demographic rows to one row
// per city, then keys them by port code.
func cityDemographicsSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS
WITH combined_demographics AS (
    SELECT
        city,
        state_code,
        SUM(male_population) AS male_population,
        SUM(female_population) AS female_population,
        SUM(total_population) AS total_population,
        SUM(number_of_veterans) AS number_of_veterans,
        SUM(foreign_born) AS num_foreign_born
    FROM demographics_clean
    GROUP BY city, state_code
)
SELECT
    p.port_code,
    cd.city,
    cd.state_code,
    cd.male_population,
    cd.female_population,
    cd.total_population,
    cd.number_of_veterans,
    cd.num_foreign_born
FROM %s p
    JOIN combined_demographics cd
        ON lower(cd.city) = lower(p.city) AND cd.state_code = p.state_code`,
		dimCityDemographics, dimPorts)
}
