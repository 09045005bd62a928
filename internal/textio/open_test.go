// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textio

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestOpenPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	rc, err := Open(path)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestOpenGzipByMagic(t *testing.T) {
	// No .gz suffix: detection relies on the magic number.
	path := filepath.Join(t.TempDir(), "report.tsv")
	fh, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte("a\tb\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	rc, err := Open(path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "a\tb\n", string(data))
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestScannerLongLine(t *testing.T) {
	long := make([]byte, 200*1024)
	for i := range long {
		long[i] = 'A'
	}
	path := filepath.Join(t.TempDir(), "long.txt")
	require.NoError(t, os.WriteFile(path, append(long, '\n'), 0o644))

	rc, err := Open(path)
	require.NoError(t, err)
	defer rc.Close()
	sc := NewScanner(rc)
	require.True(t, sc.Scan())
	assert.Len(t, sc.Text(), len(long))
	require.NoError(t, sc.Err())
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok")
	require.NoError(t, os.WriteFile(ok, nil, 0o644))

	assert.NoError(t, Check(ok, "-"))

	err := Check(ok, filepath.Join(dir, "a"), filepath.Join(dir, "b"))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
}
