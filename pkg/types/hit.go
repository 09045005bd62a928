// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HitColumns lists the cross-match report columns in file order. The report
// must be produced with this exact outfmt column list.
var HitColumns = []string{
	"qseqid", "sseqid", "sacc", "qlen", "qstart", "qend", "slen",
	"sstart", "send", "qseq", "sseq", "evalue", "length",
	"staxid", "staxids", "ssciname", "scomname",
}

// Orientation is the amplification direction of a hit relative to the side
// of the primer that produced it.
type Orientation int

const (
	Forward Orientation = iota
	Reverse
)

func (o Orientation) String() string {
	if o == Forward {
		return "forward"
	}
	return "reverse"
}

// Hit is one accepted row of the cross-match report. Positions are 1-based
// and inclusive; subject start may exceed subject end.
type Hit struct {
	QueryID           string
	SubjectID         string
	SubjectAccession  string
	QueryLen          int
	QueryStart        int
	QueryEnd          int
	SubjectLen        int
	SubjectStart      int
	SubjectEnd        int
	QueryAligned      string
	SubjectAligned    string
	EValue            float64
	AlignmentLength   int
	SubjectTaxonID    string
	SubjectTaxonIDs   string
	SubjectSciName    string
	SubjectCommonName string

	// Primer is the parsed query id.
	Primer PrimerID

	// Orientation is derived once from the query side and positions.
	Orientation Orientation
}

// NewHit builds a Hit from the 17 report columns. It returns an error
// wrapping ErrMalformedRecord when the arity is wrong or a numeric column
// does not parse, and one wrapping ErrInvalidQueryID when the query id does
// not name an L or R primer.
func NewHit(fields []string) (Hit, error) {
	if len(fields) != len(HitColumns) {
		return Hit{}, fmt.Errorf("%w: got %d columns, want %d", ErrMalformedRecord, len(fields), len(HitColumns))
	}

	h := Hit{
		QueryID:           fields[0],
		SubjectID:         fields[1],
		SubjectAccession:  fields[2],
		QueryAligned:      fields[9],
		SubjectAligned:    fields[10],
		SubjectTaxonID:    fields[13],
		SubjectTaxonIDs:   fields[14],
		SubjectSciName:    fields[15],
		SubjectCommonName: fields[16],
	}

	ints := []struct {
		col int
		dst *int
	}{
		{3, &h.QueryLen},
		{4, &h.QueryStart},
		{5, &h.QueryEnd},
		{6, &h.SubjectLen},
		{7, &h.SubjectStart},
		{8, &h.SubjectEnd},
		{12, &h.AlignmentLength},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(fields[f.col]))
		if err != nil {
			return Hit{}, fmt.Errorf("%w: column %s: %q is not an integer", ErrMalformedRecord, HitColumns[f.col], fields[f.col])
		}
		*f.dst = v
	}
	ev, err := strconv.ParseFloat(strings.TrimSpace(fields[11]), 64)
	if err != nil {
		return Hit{}, fmt.Errorf("%w: column evalue: %q is not a number", ErrMalformedRecord, fields[11])
	}
	h.EValue = ev

	id, err := ParsePrimerID(h.QueryID)
	if err != nil {
		return Hit{}, fmt.Errorf("%w: %w", ErrInvalidQueryID, err)
	}
	if !id.Side.IsPrimer() {
		return Hit{}, fmt.Errorf("%w: %q is not an L or R primer", ErrInvalidQueryID, h.QueryID)
	}
	h.Primer = id
	h.Orientation = orientation(id.Side, h.QueryStart, h.QueryEnd)
	return h, nil
}

// orientation applies the side-dependent direction rule: a left primer
// aligned on the plus strand of the query runs forward, a right primer
// (stored reverse complemented) runs forward when its query is inverted.
func orientation(side Side, qstart, qend int) Orientation {
	switch side {
	case SideLeft:
		if qstart < qend {
			return Forward
		}
	case SideRight:
		if qstart > qend {
			return Forward
		}
	}
	return Reverse
}

// TaxonKey returns the normalized subject taxon id.
func (h Hit) TaxonKey() TaxonKey {
	return ParseTaxonKey(h.SubjectTaxonID)
}

// OffTarget returns the off-target descriptor of the hit's subject.
func (h Hit) OffTarget() OffTarget {
	return OffTarget{
		Species:    h.SubjectSciName,
		TaxonID:    h.SubjectTaxonID,
		CommonName: h.SubjectCommonName,
	}
}

// TaxonKey is a taxon identifier normalized for set membership: numeric ids
// compare by value, anything else (such as the N/A sentinel) by raw text.
type TaxonKey struct {
	numeric bool
	n       int64
	raw     string
}

// ParseTaxonKey normalizes s. Leading and trailing whitespace is ignored for
// numeric ids.
func ParseTaxonKey(s string) TaxonKey {
	if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return TaxonKey{numeric: true, n: n}
	}
	return TaxonKey{raw: s}
}

func (k TaxonKey) String() string {
	if k.numeric {
		return strconv.FormatInt(k.n, 10)
	}
	return k.raw
}

// OffTarget describes the organism an off-target hit landed on.
type OffTarget struct {
	Species    string `json:"species" yaml:"species"`
	TaxonID    string `json:"taxon_id" yaml:"taxon_id"`
	CommonName string `json:"common_name" yaml:"common_name"`
}

// String formats the descriptor as "Species(taxid: common name)".
func (o OffTarget) String() string {
	return fmt.Sprintf("%s(%s: %s)", o.Species, o.TaxonID, o.CommonName)
}

var offTargetPattern = regexp.MustCompile(`^(.*)\(([^:()]*): (.*)\)$`)

// ParseOffTarget parses the String form of an OffTarget. Text that does not
// match the descriptor shape is kept whole as the species name.
func ParseOffTarget(s string) OffTarget {
	m := offTargetPattern.FindStringSubmatch(s)
	if m == nil {
		return OffTarget{Species: s}
	}
	return OffTarget{Species: m[1], TaxonID: m[2], CommonName: m[3]}
}
