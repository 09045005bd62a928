// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fasta

var complement [256]byte

func init() {
	pairs := []string{"AT", "CG", "RY", "SS", "WW", "KM", "BV", "DH", "NN"}
	for _, p := range pairs {
		complement[p[0]], complement[p[1]] = p[1], p[0]
		complement[p[0]+'a'-'A'], complement[p[1]+'a'-'A'] = p[1], p[0]
	}
}

// ReverseComplement returns the upper-case reverse complement of an IUPAC
// nucleotide sequence. Unknown symbols become N.
func ReverseComplement(seq string) string {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return string(out)
}
