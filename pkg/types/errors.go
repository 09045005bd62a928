// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Sentinel errors shared by every stage. Callers wrap them with context and
// test with errors.Is.
var (
	// ErrMalformedRecord marks a cross-match report row with the wrong number
	// of columns or a non-numeric value in a numeric column. The row is
	// skipped; the run continues.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidQueryID marks a hit whose query id does not end in an L or R
	// primer side token.
	ErrInvalidQueryID = errors.New("invalid query id")

	// ErrInvalidIdentifier marks a primer identifier that is not of the form
	// <family>_<index>_<side>.
	ErrInvalidIdentifier = errors.New("invalid primer identifier")

	// ErrMissingLookupKey marks a primer identifier that was never seeded
	// into the hit index.
	ErrMissingLookupKey = errors.New("missing lookup key")
)
