package rules

import (
	"testing"
)

func TestSQLiteRuleMagic(t *testing.T) {
	r := NewSQLiteRule()

	// A header-only sample: magic matches, the table-count probe fails soft
	// because the file does not exist on disk.
	header := make([]byte, 100)
	copy(header, "SQLite format 3\x00")
	header[16] = 0x10 // page size 4096

	m := r.Detect("/nonexistent/app.db", header, nil)
	if m == nil {
		t.Fatal("Expected a match on the magic header")
	}
	if m.Format != "sqlite" {
		t.Errorf("Expected format sqlite, got %q", m.Format)
	}
	if m.Confidence < 0.9 {
		t.Errorf("Expected high confidence, got %f", m.Confidence)
	}
	if got := m.Metadata["page_size"]; got != 4096 {
		t.Errorf("Expected page_size 4096, got %v", got)
	}
	if _, ok := m.Metadata["table_count"]; ok {
		t.Error("Expected no table_count when the probe cannot open the file")
	}

	if m := r.Detect("app.db", []byte("not a database"), decoded("not a database")); m != nil {
		t.Errorf("Expected no match without the magic header, got %+v", m)
	}
	if m := r.Detect("short.db", []byte("SQLite"), nil); m != nil {
		t.Errorf("Expected no match for a short sample, got %+v", m)
	}
}

func TestFallbackRule(t *testing.T) {
	r := NewFallbackRule("unknown")

	m := r.Detect("mystery.bin", []byte{0x00, 0x01}, nil)
	if m == nil {
		t.Fatal("Expected the fallback to always match")
	}
	if m.Format != "unknown" {
		t.Errorf("Expected format unknown, got %q", m.Format)
	}
	if m.Confidence != 0.1 {
		t.Errorf("Expected confidence 0.1, got %f", m.Confidence)
	}
	if got := m.Metadata["binary"]; got != true {
		t.Errorf("Expected binary true for nil decoded text, got %v", got)
	}

	m = r.Detect("notes.txt", []byte("prose"), decoded("prose"))
	if got := m.Metadata["binary"]; got != false {
		t.Errorf("Expected binary false for text, got %v", got)
	}
	if len(m.Reasons) != 1 || m.Reasons[0] != "no known signature matched" {
		t.Errorf("Unexpected reasons %v", m.Reasons)
	}
}
