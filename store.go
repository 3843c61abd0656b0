package wikiredirect

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// SnapshotSuffix marks a file as a snapshot rather than text.
const SnapshotSuffix = ".snap"

// Names used by Save.
const (
	TextFileName     = "wikipedia_redirect.txt"
	SnapshotFileName = "wikipedia_redirect.snap"
)

// ExitMissingInput is the process status used by MustLoadRedirects
// when its input is missing.
const ExitMissingInput = 255

var exit = os.Exit

func checkInput(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %v", ErrMissingInput, path)
		}
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("%w: %v is a directory", ErrMissingInput, path)
	}
	return nil
}

// IsSnapshot reports whether path names a snapshot file.
func IsSnapshot(path string) bool {
	return strings.HasSuffix(path, SnapshotSuffix)
}

// LoadRedirects loads an index from a snapshot or a text file,
// depending on the name.
//
// Text files are read twice: once to count the lines so the index
// can be sized up front, then to fill it.
func LoadRedirects(path string) (*Redirects, error) {
	if err := checkInput(path); err != nil {
		return nil, err
	}

	if IsSnapshot(path) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		rv, err := ReadSnapshot(f)
		if err != nil {
			return nil, fmt.Errorf("loading %v: %w", path, err)
		}
		return rv, nil
	}

	n, err := countFileLines(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rv, err := ReadText(f, n)
	if err != nil {
		return nil, fmt.Errorf("loading %v: %w", path, err)
	}
	return rv, nil
}

// MustLoadRedirects is LoadRedirects, but a missing input ends the
// process with ExitMissingInput.  Other errors are returned.
func MustLoadRedirects(path string) (*Redirects, error) {
	rv, err := LoadRedirects(path)
	if errors.Is(err, ErrMissingInput) {
		abs, _ := filepath.Abs(path)
		slog.Error("file not found", "path", abs)
		exit(ExitMissingInput)
		return nil, err
	}
	return rv, err
}

// SaveRedirects writes the index to path in the format its name
// selects.  The file is replaced atomically.
func SaveRedirects(path string, r *Redirects) error {
	write := WriteText
	if IsSnapshot(path) {
		write = WriteSnapshot
	}
	return writeAtomic(path, func(w io.Writer) error {
		return write(w, r)
	})
}

// Save writes the index into dir both as text and as a snapshot,
// creating dir if needed.
func Save(dir string, r *Redirects) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %v: %w", dir, err)
	}
	for _, name := range []string{TextFileName, SnapshotFileName} {
		path := filepath.Join(dir, name)
		if err := SaveRedirects(path, r); err != nil {
			return err
		}
		if st, err := os.Stat(path); err == nil {
			slog.Info("saved redirects", "path", path,
				"entries", humanize.Comma(int64(r.Len())),
				"size", humanize.Bytes(uint64(st.Size())))
		}
	}
	return nil
}

func writeAtomic(path string, write func(io.Writer) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %v: %w", tmp, err)
	}
	defer os.Remove(tmp)
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %v: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing %v: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %v: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %v: %w", tmp, err)
	}
	return nil
}
