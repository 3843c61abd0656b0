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

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeIndex(t *testing.T) string {
	t.Helper()
	r := wikiredirect.NewRedirects()
	r.Put("AccessibleComputing", "Computer accessibility")
	r.Put("Accessible computing", "Computer accessibility")
	r.Put("AfghanistanHistory", "History of Afghanistan")
	path := filepath.Join(t.TempDir(), wikiredirect.TextFileName)
	require.NoError(t, wikiredirect.SaveRedirects(path, r))
	return path
}

func TestLookup(t *testing.T) {
	index := writeIndex(t)

	out, err := execute(t, "lookup", index, "AfghanistanHistory")
	require.NoError(t, err)
	assert.Equal(t, "AfghanistanHistory\tHistory of Afghanistan\n", out)

	out, err = execute(t, "lookup", index, "Nope")
	assert.Error(t, err)
	assert.Equal(t, "Nope\t(no redirect)\n", out)
}

func TestSources(t *testing.T) {
	out, err := execute(t, "sources", writeIndex(t), "Computer accessibility")
	require.NoError(t, err)
	assert.Equal(t, "AccessibleComputing\nAccessible computing\n", out)
}

func TestConvertAndCount(t *testing.T) {
	index := writeIndex(t)
	snap := filepath.Join(t.TempDir(), "redirects.snap")

	out, err := execute(t, "convert", index, snap)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 redirects")

	r, err := wikiredirect.LoadRedirects(snap)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Len())

	out, err = execute(t, "count", snap)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestHypernyms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hypernyms.txt")
	require.NoError(t, os.WriteFile(path,
		[]byte("Dog\tAnimal\nDog\tPet\nCat\tAnimal\n"), 0o644))

	out, err := execute(t, "hypernyms", path, "Dog", "Fish")
	require.NoError(t, err)
	assert.Equal(t, "Dog\tAnimal\nDog\tPet\n", out)
}

func TestArgs(t *testing.T) {
	_, err := execute(t, "count")
	assert.Error(t, err)
	_, err = execute(t, "lookup", "only-index")
	assert.Error(t, err)
}

func TestMissingIndex(t *testing.T) {
	for _, args := range [][]string{
		{"count", filepath.Join(t.TempDir(), "missing.txt")},
		{"lookup", filepath.Join(t.TempDir(), "missing.snap"), "X"},
		{"hypernyms", t.TempDir(), "X"},
	} {
		_, err := execute(t, args...)
		assert.ErrorIs(t, err, wikiredirect.ErrMissingInput, "%v", args)
		assert.Equal(t, wikiredirect.ExitMissingInput, exitCode(err), "%v", args)
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	_, err := execute(t, "lookup", writeIndex(t), "Nope")
	assert.Equal(t, 1, exitCode(err))
}
