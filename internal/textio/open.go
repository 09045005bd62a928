// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textio opens line-oriented input files. Gzip input is detected by
// magic number or a .gz suffix and decompressed transparently; "-" reads
// standard input.
package textio

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
)

// MaxLineSize bounds a single input line. Cross-match rows carry aligned
// sequences and Primer3 records carry template sequences, so the default
// bufio.Scanner limit is too small.
const MaxLineSize = 16 << 20

type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// Open returns a reader for path.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		fh.Close()
		return nil, err
	}
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}

// NewScanner returns a line scanner sized for MaxLineSize.
func NewScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return sc
}

// Check reports whether every path can be opened for reading. It lets a
// command fail on a missing input before any processing starts.
func Check(paths ...string) error {
	var err error
	for _, p := range paths {
		if p == "-" {
			continue
		}
		fh, openErr := os.Open(p)
		if openErr != nil {
			err = multierr.Append(err, openErr)
			continue
		}
		err = multierr.Append(err, fh.Close())
	}
	return err
}
