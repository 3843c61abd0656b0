package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/dustin/go-wikiredirect"
	"github.com/dustin/go-wikiredirect/internal/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	db, err := open("", logger)
	require.NoError(t, err)
	defer db.Close()

	idx := wikiredirect.NewRedirects()
	for i := 0; i < 100; i++ {
		idx.Put(fmt.Sprintf("source %d", i), fmt.Sprintf("target %d", i%7))
	}

	st, err := load(db, idx, 3, loader.Options{Logger: logger})
	require.NoError(t, err)
	assert.EqualValues(t, 100, st.Sent)
	assert.Zero(t, st.Failed)

	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("source 12"))
		if err != nil {
			return err
		}
		v, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		assert.Equal(t, "target 5", string(v))
		return nil
	})
	require.NoError(t, err)
}

func TestOpenPersistent(t *testing.T) {
	dir := t.TempDir() + "/badger"
	db, err := open(dir, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)
	require.NoError(t, db.Close())
	assert.DirExists(t, dir)
}
