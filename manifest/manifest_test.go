package manifest

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func testTables() []TableManifest {
	return []TableManifest{
		{Name: "fact_immigrations", RowCount: 2875, ByteSize: 120000, FileCount: 12},
		{Name: "dim_country", RowCount: 289, ByteSize: 4096, FileCount: 1},
		{Name: "dim_ports", RowCount: 660, ByteSize: 8192, FileCount: 1},
	}
}

func TestBuild_Totals(t *testing.T) {
	b := NewBuilder("1.0.0", t.TempDir())

	m, err := b.Build(testTables())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if m.TotalRows != 2875+289+660 {
		t.Errorf("expected total rows %d, got %d", 2875+289+660, m.TotalRows)
	}
	if m.TotalBytes != 120000+4096+8192 {
		t.Errorf("expected total bytes %d, got %d", 120000+4096+8192, m.TotalBytes)
	}
	if m.Checksum == "" {
		t.Error("expected non-empty checksum")
	}
}

func TestVerify(t *testing.T) {
	b := NewBuilder("1.0.0", t.TempDir())

	m, err := b.Build(testTables())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ok, err := m.Verify()
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Error("expected checksum to verify on freshly built manifest")
	}

	m.Tables[0].RowCount++
	ok, err = m.Verify()
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Error("expected checksum mismatch after tampering")
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder("1.0.0", dir)

	m, err := b.Build(testTables())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	path, err := b.Write(m)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Errorf("manifest written outside output dir: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read manifest back: %v", err)
	}

	var loaded Manifest
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if loaded.TotalRows != m.TotalRows {
		t.Errorf("round trip changed total rows: %d != %d", loaded.TotalRows, m.TotalRows)
	}

	ok, err := loaded.Verify()
	if err != nil {
		t.Fatalf("Verify on loaded manifest failed: %v", err)
	}
	if !ok {
		t.Error("expected loaded manifest checksum to verify")
	}
}
