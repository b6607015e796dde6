// Package labels parses the I-94 SAS value-label descriptions file into
// code/name pairs for the reference dimensions.
//
// The file is plain text. A section starts at the first occurrence of its
// label name (e.g. I94PORT) and runs to the next semicolon. Inside a
// section, lines of the form
//
//	'ATL' = 'ATLANTA, GA'
//
// produce one (code, value) pair each; comment lines and anything without
// exactly one '=' are skipped.
package labels

import (
	"fmt"
	"os"
	"strings"
)

// Label names consumed by the pipeline.
const (
	Countries      = "I94RES"
	Ports          = "I94PORT"
	States         = "I94ADDR"
	TravelModes    = "I94MODE"
	VisaCategories = "I94VISA"
)

// Pair is a single code-to-name mapping from a label section.
type Pair struct {
	Code  string
	Value string
}

// File holds the raw label descriptions text.
type File struct {
	data string
}

// Load reads the label descriptions file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels file: %w", err)
	}
	return &File{data: string(data)}, nil
}

// Parse wraps raw label text, mainly for tests.
func Parse(data string) *File {
	return &File{data: data}
}

// Section extracts the code/value pairs for one label.
// A missing label or a section with no parseable pairs is an error:
// every consumed section feeds a dimension table that must not be empty.
func (f *File) Section(label string) ([]Pair, error) {
	start := strings.Index(f.data, label)
	if start < 0 {
		return nil, fmt.Errorf("label %s not found in descriptions file", label)
	}

	section := f.data[start:]
	end := strings.Index(section, ";")
	if end >= 0 {
		section = section[:end]
	}

	var pairs []Pair
	for _, line := range strings.Split(section, "\n") {
		parts := strings.Split(line, "=")
		if len(parts) != 2 {
			// Comment or continuation line without a code mapping
			continue
		}
		code := trimQuoted(parts[0])
		value := trimQuoted(parts[1])
		if code == "" {
			continue
		}
		pairs = append(pairs, Pair{Code: code, Value: value})
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("label %s has no code/value pairs", label)
	}
	return pairs, nil
}

func trimQuoted(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "'")
	return strings.TrimSpace(s)
}
