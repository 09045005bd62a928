// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package blocklist loads the static exclusion lists that parameterize the
// hit filter and the reducer: excluded subject taxa, blocked off-target
// species, blocked primer ids and the off-target substrings that keep a
// survivor out of pairwise combination. The lists are data, read from a
// YAML file at startup; a built-in copy is used when no file is given.
package blocklist

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/primer-sieve/pkg/types"
)

//go:embed default.yaml
var defaultYAML []byte

// Taxon is one excluded taxon entry. ID may be numeric or a sentinel string
// such as "N/A".
type Taxon struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

// File is the on-disk representation of the lists.
type File struct {
	ExcludedTaxa []Taxon  `yaml:"excluded_taxa"`
	Species      []string `yaml:"species_blocklist"`
	Primers      []string `yaml:"primer_blocklist"`
	Pairing      []string `yaml:"pairing_exclude"`
}

// Lists holds the compiled lookup sets. A nil *Lists blocks nothing.
type Lists struct {
	taxa    map[types.TaxonKey]string
	species map[string]struct{}
	primers map[string]struct{}
	pairing []string
}

// New compiles f into lookup sets.
func New(f File) *Lists {
	l := &Lists{
		taxa:    make(map[types.TaxonKey]string, len(f.ExcludedTaxa)),
		species: make(map[string]struct{}, len(f.Species)),
		primers: make(map[string]struct{}, len(f.Primers)),
	}
	for _, s := range f.Pairing {
		if s != "" {
			l.pairing = append(l.pairing, s)
		}
	}
	for _, t := range f.ExcludedTaxa {
		l.taxa[types.ParseTaxonKey(t.ID)] = t.Name
	}
	for _, s := range f.Species {
		l.species[s] = struct{}{}
	}
	for _, p := range f.Primers {
		l.primers[p] = struct{}{}
	}
	return l
}

// Parse decodes blocklist YAML.
func Parse(data []byte) (*Lists, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing blocklist: %w", err)
	}
	return New(f), nil
}

// Default returns the built-in lists.
func Default() *Lists {
	l, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in blocklist: %v", err))
	}
	return l
}

// Load reads lists from path, or returns Default when path is empty.
func Load(path string) (*Lists, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading blocklist %s: %w", path, err)
	}
	return Parse(data)
}

// ExcludesTaxon reports whether hits on taxon k are ignored.
func (l *Lists) ExcludesTaxon(k types.TaxonKey) bool {
	if l == nil {
		return false
	}
	_, ok := l.taxa[k]
	return ok
}

// BlocksSpecies reports whether name is a blocked off-target species.
func (l *Lists) BlocksSpecies(name string) bool {
	if l == nil {
		return false
	}
	_, ok := l.species[name]
	return ok
}

// BlocksPrimer reports whether id is blocked, either as written or through
// the family of a parseable primer identifier.
func (l *Lists) BlocksPrimer(id string) bool {
	if l == nil {
		return false
	}
	if _, ok := l.primers[id]; ok {
		return true
	}
	if p, err := types.ParsePrimerID(id); err == nil {
		_, ok := l.primers[p.Family]
		return ok
	}
	return false
}

// ExcludesFromPairing reports whether an off-target descriptor contains one
// of the pairing exclusion substrings. Matching is case-sensitive.
func (l *Lists) ExcludesFromPairing(descriptor string) bool {
	if l == nil {
		return false
	}
	for _, s := range l.pairing {
		if strings.Contains(descriptor, s) {
			return true
		}
	}
	return false
}

// Summary returns the list sizes for progress output.
func (l *Lists) Summary() (taxa, species, primers, pairing int) {
	if l == nil {
		return 0, 0, 0, 0
	}
	return len(l.taxa), len(l.species), len(l.primers), len(l.pairing)
}
