// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package blast reads tabular cross-match reports (outfmt 6 with the
// 17-column layout in types.HitColumns) into typed hits.
package blast

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/primer-sieve/internal/textio"
	"github.com/pdiddy/primer-sieve/pkg/types"
)

// Stats counts the rows seen while reading a report.
type Stats struct {
	Rows      int
	Parsed    int
	Malformed int
}

// Read parses the report from r and calls visit for every row that forms a
// valid hit, in file order. Malformed rows are reported on w and skipped.
// An invalid query id, or an error from visit, stops the read.
func Read(r io.Reader, w io.Writer, visit func(types.Hit) error) (Stats, error) {
	var st Stats
	sc := textio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" {
			continue
		}
		st.Rows++
		hit, err := types.NewHit(strings.Split(text, "\t"))
		if errors.Is(err, types.ErrMalformedRecord) {
			st.Malformed++
			fmt.Fprintf(w, "skipped malformed row %d: %v\n", line, err)
			continue
		}
		if err != nil {
			return st, fmt.Errorf("row %d: %w", line, err)
		}
		st.Parsed++
		if err := visit(hit); err != nil {
			return st, err
		}
	}
	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("reading report: %w", err)
	}
	return st, nil
}

// ReadFile opens path (plain or gzip) and reads it with Read.
func ReadFile(path string, w io.Writer, visit func(types.Hit) error) (Stats, error) {
	rc, err := textio.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	st, err := Read(rc, w, visit)
	if err != nil {
		return st, fmt.Errorf("%s: %w", path, err)
	}
	return st, nil
}
