package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/primer-sieve/internal/reduce"
	"github.com/pdiddy/primer-sieve/internal/report"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(types.StoreConfig{DBPath: filepath.Join(dir, "db", "survivors.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func survivorLine(id, left, right string, hits ...string) string {
	if hits == nil {
		hits = []string{}
	}
	data, _ := json.Marshal(hits)
	side := id[len(id)-1:]
	partner := "L"
	if side == "L" {
		partner = "R"
	}
	return strings.Join([]string{id, left, right, "60.0", "61.0", "80.0", side, partner, string(data)}, "\t") + "\n"
}

func writeTable(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := strings.Join(report.SurvivorColumns, "\t") + "\n" + strings.Join(lines, "")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- tests ---

func TestIngestFirstRowWins(t *testing.T) {
	s, dir := testStore(t)
	ctx := context.Background()

	run1 := writeTable(t, dir, "run1.survivor.tsv",
		survivorLine("a_0_L", "AAAA", "CCCC", "Homo sapiens(9606: human)"),
		survivorLine("a_0_R", "AAAA", "CCCC"),
	)
	run2 := writeTable(t, dir, "run2.survivor.tsv",
		survivorLine("a_0_L", "GGGG", "TTTT"),
		survivorLine("b_1_L", "GGGG", "TTTT"),
	)

	var log bytes.Buffer
	summary, err := s.Ingest(ctx, []string{run1, run2}, &log)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Indexed != 2 || summary.Rows != 3 || summary.Duplicates != 1 {
		t.Fatalf("summary = %+v, want 2 indexed, 3 rows, 1 duplicate", summary)
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	first := entries[0]
	if first.PrimerID != "a_0_L" || first.LeftPrimer != "AAAA" {
		t.Errorf("a_0_L = %+v, want the row from run1", first)
	}
	if first.Family != "a" || first.Index != 0 || first.Side != "L" || first.TrappedSide != "R" {
		t.Errorf("identifier fields = %+v", first)
	}
	if len(first.BlastHits) != 1 || first.BlastHits[0] != "Homo sapiens(9606: human)" {
		t.Errorf("blast hits = %v", first.BlastHits)
	}
	if entries[2].PrimerID != "b_1_L" || entries[2].Index != 1 {
		t.Errorf("entries[2] = %+v", entries[2])
	}
}

func TestIngestSkipsUnchangedAndReplacesChanged(t *testing.T) {
	s, dir := testStore(t)
	ctx := context.Background()

	path := writeTable(t, dir, "run.survivor.tsv", survivorLine("a_0_L", "AAAA", "CCCC"))
	if _, err := s.Ingest(ctx, []string{path}, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	var log bytes.Buffer
	summary, err := s.Ingest(ctx, []string{path}, &log)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Skipped != 1 || summary.Total() != 1 {
		t.Fatalf("second ingest summary = %+v, want 1 skipped", summary)
	}
	if !strings.Contains(log.String(), "files: 1 (indexed: 0, updated: 0, skipped: 1, failed: 0)") {
		t.Errorf("ingest log = %q, want the file total", log.String())
	}

	writeTable(t, dir, "run.survivor.tsv", survivorLine("c_0_R", "GGGG", "TTTT"))
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	summary, err = s.Ingest(ctx, []string{path}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Updated != 1 {
		t.Fatalf("third ingest summary = %+v, want 1 updated", summary)
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].PrimerID != "c_0_R" {
		t.Fatalf("entries = %+v, want only c_0_R", entries)
	}
}

func TestIngestFailures(t *testing.T) {
	s, dir := testStore(t)

	bad := filepath.Join(dir, "bad.tsv")
	if err := os.WriteFile(bad, []byte("not a survivor table\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	badID := writeTable(t, dir, "badid.tsv", survivorLine("nonsense", "A", "C"))

	var log bytes.Buffer
	summary, err := s.Ingest(context.Background(), []string{filepath.Join(dir, "missing.tsv"), bad, badID}, &log)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Failed != 3 {
		t.Fatalf("summary = %+v, want 3 failed", summary)
	}
	if !strings.Contains(log.String(), "failed  ") {
		t.Errorf("log does not report failures:\n%s", log.String())
	}
}

func TestIngestCanceled(t *testing.T) {
	s, dir := testStore(t)
	path := writeTable(t, dir, "run.survivor.tsv", survivorLine("a_0_L", "A", "C"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Ingest(ctx, []string{path}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error from canceled context")
	}
}

func TestExport(t *testing.T) {
	s, dir := testStore(t)
	ctx := context.Background()
	path := writeTable(t, dir, "run.survivor.tsv",
		survivorLine("b_0_R", "GGGG", "TTTT"),
		survivorLine("a_0_L", "AAAA", "CCCC", "Mus musculus(10090: house mouse)"),
	)
	if _, err := s.Ingest(ctx, []string{path}, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	t.Run("tsv round trips through the reducer reader", func(t *testing.T) {
		var buf bytes.Buffer
		if err := s.Export(ctx, &buf, FormatTSV); err != nil {
			t.Fatal(err)
		}
		rows, st, err := reduce.ReadRows(&buf, &bytes.Buffer{})
		if err != nil {
			t.Fatal(err)
		}
		if st.Skipped != 0 || len(rows) != 2 {
			t.Fatalf("rows = %d, stats = %+v", len(rows), st)
		}
		if rows[0].PrimerID() != "a_0_L" || rows[0].OffTargets[0].Species != "Mus musculus" {
			t.Errorf("rows[0] = %+v", rows[0])
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := s.Export(ctx, &buf, FormatYAML); err != nil {
			t.Fatal(err)
		}
		var entries []Entry
		if err := yaml.Unmarshal(buf.Bytes(), &entries); err != nil {
			t.Fatal(err)
		}
		if len(entries) != 2 || entries[1].PrimerID != "b_0_R" {
			t.Errorf("entries = %+v", entries)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := s.Export(ctx, &buf, FormatJSON); err != nil {
			t.Fatal(err)
		}
		var entries []Entry
		if err := json.Unmarshal(buf.Bytes(), &entries); err != nil {
			t.Fatal(err)
		}
		if len(entries) != 2 || entries[0].BlastHits[0] != "Mus musculus(10090: house mouse)" {
			t.Errorf("entries = %+v", entries)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if err := s.Export(ctx, &bytes.Buffer{}, "xml"); err == nil {
			t.Fatal("expected error for unknown format")
		}
	})
}

func TestExportEmpty(t *testing.T) {
	s, _ := testStore(t)
	var buf bytes.Buffer
	if err := s.Export(context.Background(), &buf, FormatJSON); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty export = %q, want []", buf.String())
	}
}
