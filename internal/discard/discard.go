// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discard loads namelists of primer identifiers that must not
// survive regardless of their cross-match hits. Each file holds one
// identifier per line; surrounding whitespace and blank lines are ignored.
package discard

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/pdiddy/primer-sieve/internal/textio"
)

// Set is the union of all loaded namelists.
type Set map[string]struct{}

// Contains reports whether id is discarded.
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Load reads and unions every namelist in paths. All files are attempted;
// the returned error combines every file that could not be read.
func Load(paths ...string) (Set, error) {
	set := make(Set)
	var errs error
	for _, path := range paths {
		if err := loadFile(set, path); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return set, nil
}

func loadFile(set Set, path string) error {
	rc, err := textio.Open(path)
	if err != nil {
		return fmt.Errorf("reading discard list %s: %w", path, err)
	}
	defer rc.Close()

	sc := textio.NewScanner(rc)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name != "" {
			set[name] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading discard list %s: %w", path, err)
	}
	return nil
}
