package main

import "testing"

func TestNeedsHTTPFS(t *testing.T) {
	cases := []struct {
		name         string
		immigration  string
		demographics string
		outputDir    string
		want         bool
	}{
		{
			"all local",
			"/data/i94/*.csv", "/data/demo.csv", "/data/out",
			false,
		},
		{
			"s3 immigration input",
			"s3://lake/i94/*.parquet", "/data/demo.csv", "/data/out",
			true,
		},
		{
			"https demographics input",
			"/data/i94/*.csv", "https://example.com/demo.csv", "/data/out",
			true,
		},
		{
			"s3 output dir",
			"/data/i94/*.csv", "/data/demo.csv", "s3://lake/out",
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			cfg.Data.ImmigrationPath = tc.immigration
			cfg.Data.DemographicsPath = tc.demographics
			cfg.Data.OutputDir = tc.outputDir

			if got := needsHTTPFS(&cfg); got != tc.want {
				t.Errorf("needsHTTPFS = %v, want %v", got, tc.want)
			}
		})
	}
}
