// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/primer-sieve/internal/report"
)

// Export formats.
const (
	FormatTSV  = "tsv"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Export writes every stored survivor to w in the given format.
func (s *Store) Export(ctx context.Context, w io.Writer, format string) error {
	entries, err := s.Entries(ctx)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []Entry{}
	}

	switch format {
	case FormatTSV, "":
		return writeTSV(w, entries)
	case FormatYAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatJSON:
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	return fmt.Errorf("unknown export format %q (want %s, %s or %s)", format, FormatTSV, FormatYAML, FormatJSON)
}

// writeTSV writes entries in the survivor table layout, so an export can be
// fed back to the reducer.
func writeTSV(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, strings.Join(report.SurvivorColumns, "\t"))
	for _, e := range entries {
		hits := e.BlastHits
		if hits == nil {
			hits = []string{}
		}
		data, err := json.Marshal(hits)
		if err != nil {
			return err
		}
		fmt.Fprintln(bw, strings.Join([]string{
			e.PrimerID, e.LeftPrimer, e.RightPrimer, e.LeftTm, e.RightTm, e.ProductTm,
			e.Side, e.TrappedSide, string(data),
		}, "\t"))
	}
	return bw.Flush()
}
