// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Measure is a descriptive numeric value copied from Primer3 output
// (a Tm, a penalty, a GC percent). It keeps the text Primer3 printed and
// accepts either a JSON string or a JSON number when decoded.
type Measure string

// UnmarshalJSON accepts "60.1", 60.1 and null.
func (m *Measure) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Measure(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("measure: %w", err)
	}
	*m = Measure(n.String())
	return nil
}

// PrimerDesign is one designed primer pair as reported by Primer3. Only the
// sequences and melting temperatures take part in the survivor reports; the
// rest is carried along for the JSON and TSV conversions.
type PrimerDesign struct {
	PairPenalty      Measure `json:"PRIMER_PAIR_PENALTY,omitempty"`
	LeftPenalty      Measure `json:"PRIMER_LEFT_PENALTY,omitempty"`
	RightPenalty     Measure `json:"PRIMER_RIGHT_PENALTY,omitempty"`
	InternalPenalty  Measure `json:"PRIMER_INTERNAL_PENALTY,omitempty"`
	LeftSequence     string  `json:"PRIMER_LEFT_SEQUENCE"`
	RightSequence    string  `json:"PRIMER_RIGHT_SEQUENCE"`
	InternalSequence string  `json:"PRIMER_INTERNAL_SEQUENCE,omitempty"`
	Left             string  `json:"PRIMER_LEFT,omitempty"`
	Right            string  `json:"PRIMER_RIGHT,omitempty"`
	Internal         string  `json:"PRIMER_INTERNAL,omitempty"`
	LeftTm           Measure `json:"PRIMER_LEFT_TM"`
	RightTm          Measure `json:"PRIMER_RIGHT_TM"`
	InternalTm       Measure `json:"PRIMER_INTERNAL_TM,omitempty"`
	LeftGCPercent    Measure `json:"PRIMER_LEFT_GC_PERCENT,omitempty"`
	RightGCPercent   Measure `json:"PRIMER_RIGHT_GC_PERCENT,omitempty"`
	InternalGC       Measure `json:"PRIMER_INTERNAL_GC_PERCENT,omitempty"`
	ProductSize      Measure `json:"PRIMER_PAIR_PRODUCT_SIZE,omitempty"`
	ProductTm        Measure `json:"PRIMER_PAIR_PRODUCT_TM"`
}

// DesignFamily holds every pair Primer3 returned for one template. The
// position of a design in Designs is its index in primer identifiers.
type DesignFamily struct {
	Input   map[string]string `json:"Primer3_input,omitempty"`
	Designs []PrimerDesign    `json:"Primer3_output"`
}

// DesignSet maps family ids to their designs.
type DesignSet map[string]DesignFamily

// Families returns the family ids in sorted order.
func (d DesignSet) Families() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Design returns the design addressed by key.
func (d DesignSet) Design(key PairKey) (PrimerDesign, error) {
	fam, ok := d[key.Family]
	if !ok {
		return PrimerDesign{}, fmt.Errorf("%w: design family %q", ErrMissingLookupKey, key.Family)
	}
	if key.Index < 0 || key.Index >= len(fam.Designs) {
		return PrimerDesign{}, fmt.Errorf("%w: design %s (family has %d designs)", ErrMissingLookupKey, key, len(fam.Designs))
	}
	return fam.Designs[key.Index], nil
}

// PairCount returns the total number of designs across families.
func (d DesignSet) PairCount() int {
	n := 0
	for _, fam := range d {
		n += len(fam.Designs)
	}
	return n
}
