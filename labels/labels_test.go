package labels

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleLabels = `/* I94MODE - There are missing values as well as not reported (9) */
value i94model
	1 = 'Air'
	2 = 'Sea'
	3 = 'Land'
	9 = 'Not reported' ;

/* I94PORT - This format shows all the valid and invalid codes for processing */
value $i94prtl
	'ALC'	=	'ALCAN, AK             '
	'ANC'	=	'ANCHORAGE, AK         '
	'XXX'	=	'NOT REPORTED/UNKNOWN  ' ;

/* I94VISA - Visa codes collapsed into three categories */
value i94visa
	1 = 'Business'
	2 = 'Pleasure'
	3 = 'Student' ;
`

func TestSection_NumericCodes(t *testing.T) {
	f := Parse(sampleLabels)

	pairs, err := f.Section(TravelModes)
	if err != nil {
		t.Fatalf("Section(%s) failed: %v", TravelModes, err)
	}

	want := []Pair{
		{"1", "Air"},
		{"2", "Sea"},
		{"3", "Land"},
		{"9", "Not reported"},
	}
	if len(pairs) != len(want) {
		t.Fatalf("expected %d pairs, got %d: %v", len(want), len(pairs), pairs)
	}
	for i, p := range want {
		if pairs[i] != p {
			t.Errorf("pair %d: expected %v, got %v", i, p, pairs[i])
		}
	}
}

func TestSection_QuotedCodes(t *testing.T) {
	f := Parse(sampleLabels)

	pairs, err := f.Section(Ports)
	if err != nil {
		t.Fatalf("Section(%s) failed: %v", Ports, err)
	}

	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d: %v", len(pairs), pairs)
	}
	if pairs[0].Code != "ALC" {
		t.Errorf("expected code ALC, got %q", pairs[0].Code)
	}
	if pairs[0].Value != "ALCAN, AK" {
		t.Errorf("expected trimmed value, got %q", pairs[0].Value)
	}
}

func TestSection_StopsAtSemicolon(t *testing.T) {
	f := Parse(sampleLabels)

	// The I94MODE section must not leak entries from the sections below it.
	pairs, err := f.Section(TravelModes)
	if err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	for _, p := range pairs {
		if p.Code == "ALC" || p.Code == "1 = 'Business'" {
			t.Errorf("section leaked past terminator: %v", p)
		}
	}
}

func TestSection_UnknownLabel(t *testing.T) {
	f := Parse(sampleLabels)

	if _, err := f.Section("I94CIT"); err == nil {
		t.Fatal("expected error for missing label, got nil")
	}
}

func TestSection_NoPairs(t *testing.T) {
	f := Parse("value i94model ;")

	if _, err := f.Section("i94model"); err == nil {
		t.Fatal("expected error for empty section, got nil")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "I94_SAS_Labels_Descriptions.SAS")
	if err := os.WriteFile(path, []byte(sampleLabels), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := f.Section(VisaCategories); err != nil {
		t.Errorf("Section after Load failed: %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.SAS")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}
