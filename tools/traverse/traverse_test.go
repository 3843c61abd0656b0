package main

import (
	"bytes"
	"encoding/gob"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dump = `    <redirect />
      <text xml:space="preserve">#REDIRECT [[Orphan]]</text>
    <title>Good</title>
    <redirect />
      <text xml:space="preserve">#REDIRECT [[Target]]</text>
    <title>Wikipedia:Sandbox</title>
    <redirect />
      <text xml:space="preserve">#REDIRECT [[Wikipedia:About]]</text>
`

func TestTraverse(t *testing.T) {
	logs := &bytes.Buffer{}
	errs := &bytes.Buffer{}
	st, err := traverse(strings.NewReader(dump), errs, false,
		slog.New(slog.NewTextHandler(logs, nil)))
	require.NoError(t, err)

	assert.EqualValues(t, 1, st.Accepted)
	assert.EqualValues(t, 1, st.Discarded)
	assert.EqualValues(t, 1, st.Malformed)
	assert.Contains(t, logs.String(), "cannot extract redirect")

	var recs []MalformedRecord
	d := gob.NewDecoder(errs)
	for {
		var rec MalformedRecord
		err := d.Decode(&rec)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Line, "Orphan")
	assert.Contains(t, recs[0].Error, "before any title")
}
