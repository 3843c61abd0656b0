package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dustin/go-wikiredirect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReporter struct {
	wikiredirect.NopReporter
	progress, malformed, done int
}

func (c *countingReporter) Progress(wikiredirect.Stats)     { c.progress++ }
func (c *countingReporter) Malformed(string, string, error) { c.malformed++ }
func (c *countingReporter) Done(wikiredirect.Stats)         { c.done++ }

func TestReporter(t *testing.T) {
	m := New()
	next := &countingReporter{}
	rep := m.Reporter(next)

	rep.Progress(wikiredirect.Stats{Lines: 10, Accepted: 1})
	rep.Malformed("t", "l", errors.New("bad"))
	rep.Malformed("t", "l", errors.New("bad"))
	rep.Done(wikiredirect.Stats{
		Lines:     100,
		Accepted:  7,
		Discarded: 2,
		Malformed: 2,
		Elapsed:   2 * time.Second,
	})

	assert.Equal(t, 1, next.progress)
	assert.Equal(t, 2, next.malformed)
	assert.Equal(t, 1, next.done)

	assert.Equal(t, float64(100), testutil.ToFloat64(m.LinesRead))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.RedirectsTotal.WithLabelValues("accepted")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.RedirectsTotal.WithLabelValues("discarded")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.MalformedTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.DurationSeconds))
	assert.Equal(t, float64(50), testutil.ToFloat64(m.LinesPerSecond))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccessTime), float64(0))
}

func TestReporterWithExtractor(t *testing.T) {
	m := New()
	e := wikiredirect.NewExtractor()
	e.Reporter = m.Reporter(nil)

	dump := "    <title>A</title>\n    <redirect />\n      <text xml:space=\"preserve\">#REDIRECT [[B]]</text>\n"
	_, err := e.Extract(strings.NewReader(dump), &strings.Builder{})
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RedirectsTotal.WithLabelValues("accepted")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.LinesRead))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Reporter(nil).Done(wikiredirect.Stats{Lines: 5, Accepted: 3})

	path := filepath.Join(t.TempDir(), "wikiredirect.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `wikiredirect_redirects{outcome="accepted"} 3`)
	assert.Contains(t, string(data), "wikiredirect_lines_read 5")
}
