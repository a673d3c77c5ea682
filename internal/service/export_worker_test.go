package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"nil", nil, "NULL"},
		{"string", "hello", "'hello'"},
		{"string with quote", "it's", "'it''s'"},
		{"int", int64(42), "42"},
		{"float", 4.2, "4.2"},
		{"bool true", true, "TRUE"},
		{"bool false", false, "FALSE"},
		{"bytes", []byte{0xde, 0xad}, "'\\xdead'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sqlLiteral(tt.input); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSQLLiteral_Time(t *testing.T) {
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	got := sqlLiteral(ts)
	if got != "'2026-08-30T12:00:00Z'" {
		t.Errorf("got %s", got)
	}
}

func TestExportWorker_Prune(t *testing.T) {
	dir := t.TempDir()
	w := NewExportWorker(nil, dir, time.Hour)

	// Create more dumps than the retention limit, plus a file that should
	// never be touched.
	names := []string{
		"crowdtruth-20260801-000000.sql.gz",
		"crowdtruth-20260802-000000.sql.gz",
		"crowdtruth-20260803-000000.sql.gz",
		"crowdtruth-20260804-000000.sql.gz",
		"crowdtruth-20260805-000000.sql.gz",
		"crowdtruth-20260806-000000.sql.gz",
		"crowdtruth-20260807-000000.sql.gz",
		"crowdtruth-20260808-000000.sql.gz",
		"crowdtruth-20260809-000000.sql.gz",
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := w.prune(); err != nil {
		t.Fatalf("prune: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	var dumps []string
	foundNotes := false
	for _, e := range entries {
		if e.Name() == "notes.txt" {
			foundNotes = true
			continue
		}
		dumps = append(dumps, e.Name())
	}

	if len(dumps) != keepExports {
		t.Errorf("kept %d dumps, want %d", len(dumps), keepExports)
	}
	if !foundNotes {
		t.Error("non-dump files must not be pruned")
	}
	// The oldest dumps are the ones removed.
	for _, name := range dumps {
		if name < "crowdtruth-20260803" {
			t.Errorf("old dump %s should have been pruned", name)
		}
	}
}
