package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dustin/go-wikiredirect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dump = `  <page>
    <title>AccessibleComputing</title>
    <redirect />
    <revision>
      <text xml:space="preserve">#REDIRECT [[Computer accessibility]]</text>
    </revision>
  </page>
  <page>
    <title>Portal:Science</title>
    <redirect />
    <revision>
      <text xml:space="preserve">#REDIRECT [[Portal:Science and technology]]</text>
    </revision>
  </page>
`

func writeDump(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "testwiki-20240101-pages-articles.xml")
	require.NoError(t, os.WriteFile(path, []byte(dump), 0o644))
	return path
}

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"a", "b"}} {
		stderr := &bytes.Buffer{}
		require.NoError(t, run(options{}, args, stderr))
		assert.Contains(t, stderr.String(), "Please specify the path")
	}
}

func TestRunMissingInput(t *testing.T) {
	stderr := &bytes.Buffer{}
	dir := t.TempDir()
	require.NoError(t, run(options{outputDir: dir}, []string{filepath.Join(dir, "nope.xml")}, stderr))
	assert.Contains(t, stderr.String(), "File not found")

	stderr.Reset()
	require.NoError(t, run(options{outputDir: dir}, []string{dir}, stderr))
	assert.Contains(t, stderr.String(), "File not found")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunExtract(t *testing.T) {
	out := filepath.Join(t.TempDir(), "target")
	promFile := filepath.Join(t.TempDir(), "extract.prom")
	stderr := &bytes.Buffer{}

	err := run(options{outputDir: out, saveIndex: true, metricsFile: promFile},
		[]string{writeDump(t)}, stderr)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "testwiki-redirect.txt"))
	require.NoError(t, err)
	assert.Equal(t, "AccessibleComputing\tComputer accessibility\n", string(data))

	idx, err := wikiredirect.LoadRedirects(filepath.Join(out, wikiredirect.SnapshotFileName))
	require.NoError(t, err)
	target, ok := idx.Get("AccessibleComputing")
	assert.True(t, ok)
	assert.Equal(t, "Computer accessibility", target)

	prom, err := os.ReadFile(promFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `wikiredirect_redirects{outcome="discarded"} 1`)
	assert.Contains(t, stderr.String(), "redirect extraction done")
}
