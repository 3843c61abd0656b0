package wikiredirect

import (
	"compress/bzip2"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OutputName derives the redirect file name for a dump.
//
// Dump names look like "enwiki-20111007-pages-articles.xml", so
// everything from the first hyphen on is dropped:
// "enwiki-redirect.txt".
func OutputName(dumpPath string) string {
	base := filepath.Base(dumpPath)
	if i := strings.IndexByte(base, '-'); i >= 0 {
		base = base[:i]
	}
	return base + "-redirect.txt"
}

type bzipFile struct {
	io.Reader
	f *os.File
}

func (b bzipFile) Close() error {
	return b.f.Close()
}

// OpenDump opens a dump, decompressing it on the fly if the name ends
// in ".bz2".
func OpenDump(path string) (io.ReadCloser, error) {
	if err := checkInput(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".bz2") {
		return bzipFile{bzip2.NewReader(f), f}, nil
	}
	return f, nil
}
