package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/dustin/go-wikiredirect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

type memSink struct {
	store    *memStore
	closed   bool
	failOn   string
	closeErr error
}

func (m *memSink) Put(source, target string) error {
	if source == m.failOn {
		return fmt.Errorf("refusing %s", source)
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.data[source] = target
	return nil
}

func (m *memSink) Close() error {
	m.closed = true
	return m.closeErr
}

func quietOptions() Options {
	return Options{
		ReportEvery: 2,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func testIndex(n int) *wikiredirect.Redirects {
	r := wikiredirect.NewRedirectsSize(n)
	for i := 0; i < n; i++ {
		r.Put(fmt.Sprintf("source %d", i), fmt.Sprintf("target %d", i%3))
	}
	return r
}

func TestRun(t *testing.T) {
	store := &memStore{data: map[string]string{}}
	var sinks []Sink
	var raw []*memSink
	for i := 0; i < 4; i++ {
		s := &memSink{store: store, failOn: "source 7"}
		sinks = append(sinks, s)
		raw = append(raw, s)
	}

	st, err := Run(testIndex(50), sinks, quietOptions())
	require.NoError(t, err)

	assert.Equal(t, int64(50), st.Sent)
	assert.Equal(t, int64(1), st.Failed)
	assert.Len(t, store.data, 49)
	assert.Equal(t, "target 1", store.data["source 10"])
	for i, s := range raw {
		assert.True(t, s.closed, "sink %d not closed", i)
	}
}

func TestRunCloseErrors(t *testing.T) {
	store := &memStore{data: map[string]string{}}
	boom := errors.New("boom")
	sinks := []Sink{
		&memSink{store: store},
		&memSink{store: store, closeErr: boom},
	}

	_, err := Run(testIndex(5), sinks, quietOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	keys := make([]string, 0, len(store.data))
	for k := range store.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"source 0", "source 1", "source 2", "source 3", "source 4"}, keys)
}

func TestRunNoSinks(t *testing.T) {
	_, err := Run(testIndex(1), nil, quietOptions())
	assert.Error(t, err)
}
