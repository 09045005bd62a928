// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store combines survivor tables from many runs in a SQLite
// database. The first row seen for a primer id wins; later duplicates are
// counted and skipped. Source files that did not change since they were
// last ingested are skipped.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/primer-sieve/internal/reduce"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

// Store manages the survivor database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at cfg.DBPath and creates the
// schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = types.DefaultDBPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS survivors (
			primer_id TEXT PRIMARY KEY,
			family TEXT NOT NULL,
			design_index INTEGER NOT NULL,
			side TEXT NOT NULL,
			left_primer TEXT,
			right_primer TEXT,
			left_tm TEXT,
			right_tm TEXT,
			product_tm TEXT,
			trapped_side TEXT,
			blast_hits TEXT,
			source TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_survivors_family ON survivors(family)`,
		`CREATE INDEX IF NOT EXISTS idx_survivors_source ON survivors(source)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			source TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an ingest run.
type IngestSummary struct {
	Indexed    int
	Updated    int
	Skipped    int
	Failed     int
	Rows       int
	Duplicates int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest adds the rows of every survivor table in paths. A file whose
// modification time matches the last ingest is skipped; a changed file
// replaces the rows it contributed before. Per-file failures are reported
// on w and counted; they do not stop the run.
func (s *Store) Ingest(ctx context.Context, paths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		source, err := filepath.Abs(path)
		if err != nil {
			source = path
		}
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE source = ?`, source,
		).Scan(&storedModTime)
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", path)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		rows, _, err := reduce.ReadFile(path, w)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}

		added, err := s.ingestFile(ctx, source, rows, modTime, isUpdate)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", path, err)
			summary.Failed++
			continue
		}
		summary.Rows += added
		summary.Duplicates += len(rows) - added

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d rows, %d new)\n", path, len(rows), added)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d rows, %d new)\n", path, len(rows), added)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nfiles: %d (indexed: %d, updated: %d, skipped: %d, failed: %d), rows: %d, duplicates: %d\n",
		summary.Total(), summary.Indexed, summary.Updated, summary.Skipped, summary.Failed, summary.Rows, summary.Duplicates)
	return summary, nil
}

func (s *Store) ingestFile(ctx context.Context, source string, rows []reduce.Row, modTime string, isUpdate bool) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM survivors WHERE source = ?`, source); err != nil {
			return 0, fmt.Errorf("deleting old rows: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO survivors (primer_id, family, design_index, side, left_primer, right_primer,
			left_tm, right_tm, product_tm, trapped_side, blast_hits, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, r := range rows {
		id, err := types.ParsePrimerID(r.PrimerID())
		if err != nil {
			return 0, err
		}
		f := r.Fields
		res, err := stmt.ExecContext(ctx,
			r.PrimerID(), id.Family, id.Index, string(id.Side), f[1], f[2],
			f[3], f[4], f[5], f[7], f[8], source,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting %s: %w", r.PrimerID(), err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (source, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(source) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		source, modTime,
	)
	if err != nil {
		return 0, fmt.Errorf("updating indexing status: %w", err)
	}

	return added, tx.Commit()
}

// Entry is one stored survivor.
type Entry struct {
	PrimerID    string   `json:"primer_id" yaml:"primer_id"`
	Family      string   `json:"family" yaml:"family"`
	Index       int      `json:"index" yaml:"index"`
	Side        string   `json:"side" yaml:"side"`
	LeftPrimer  string   `json:"left_primer" yaml:"left_primer"`
	RightPrimer string   `json:"right_primer" yaml:"right_primer"`
	LeftTm      string   `json:"left_tm" yaml:"left_tm"`
	RightTm     string   `json:"right_tm" yaml:"right_tm"`
	ProductTm   string   `json:"product_tm" yaml:"product_tm"`
	TrappedSide string   `json:"trapped_side" yaml:"trapped_side"`
	BlastHits   []string `json:"blast_hits" yaml:"blast_hits"`
	Source      string   `json:"source" yaml:"source"`
}

// Entries returns every stored survivor ordered by primer id.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT primer_id, family, design_index, side, left_primer, right_primer,
			left_tm, right_tm, product_tm, trapped_side, blast_hits, source
		 FROM survivors ORDER BY primer_id`)
	if err != nil {
		return nil, fmt.Errorf("querying survivors: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e    Entry
			hits string
		)
		if err := rows.Scan(&e.PrimerID, &e.Family, &e.Index, &e.Side, &e.LeftPrimer, &e.RightPrimer,
			&e.LeftTm, &e.RightTm, &e.ProductTm, &e.TrappedSide, &hits, &e.Source); err != nil {
			return nil, fmt.Errorf("scanning survivor: %w", err)
		}
		if err := json.Unmarshal([]byte(hits), &e.BlastHits); err != nil {
			return nil, fmt.Errorf("survivor %s: blast hits: %w", e.PrimerID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
