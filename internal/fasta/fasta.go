// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fasta reads and writes FASTA records. The survivor pipeline only
// needs record identifiers (the primer universe); sequences are kept for the
// Primer3 conversion output.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/primer-sieve/internal/textio"
)

// Record is one FASTA entry. ID is the first whitespace-delimited token of
// the header line.
type Record struct {
	ID  string
	Seq string
}

// Read parses every record from r. Sequence lines are concatenated and
// upper-cased; lines before the first header are ignored.
func Read(r io.Reader) ([]Record, error) {
	sc := textio.NewScanner(r)
	var (
		records []Record
		cur     *Record
		seq     strings.Builder
	)
	flush := func() {
		if cur != nil {
			cur.Seq = seq.String()
			records = append(records, *cur)
		}
		seq.Reset()
	}
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, ">") {
			flush()
			fields := strings.Fields(line[1:])
			id := ""
			if len(fields) > 0 {
				id = fields[0]
			}
			cur = &Record{ID: id}
			continue
		}
		if cur == nil {
			continue
		}
		seq.WriteString(strings.ToUpper(strings.TrimSpace(line)))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading fasta: %w", err)
	}
	flush()
	return records, nil
}

// ReadIDs returns the record identifiers of the FASTA file at path in file
// order.
func ReadIDs(path string) ([]string, error) {
	rc, err := textio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	records, err := Read(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("%s: record with empty header", path)
		}
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

// Write writes records with one unwrapped sequence line each.
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintf(bw, ">%s\n%s\n", rec.ID, rec.Seq); err != nil {
			return err
		}
	}
	return bw.Flush()
}
