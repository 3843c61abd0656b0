package wikiredirect

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// The text format is one "key<TAB>value\n" record per line.  Titles
// containing tabs or newlines cannot be represented.

func writeRecord(w *bufio.Writer, key, value string) error {
	w.WriteString(key)
	w.WriteByte('\t')
	w.WriteString(value)
	return w.WriteByte('\n')
}

// splitFields splits a record on tabs, dropping trailing empty fields.
func splitFields(line string) []string {
	fields := strings.Split(line, "\t")
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

// WriteText writes the index as tab separated text.
func WriteText(w io.Writer, r *Redirects) error {
	bw := bufio.NewWriter(w)
	var err error
	r.Each(func(source, target string) bool {
		err = writeRecord(bw, source, target)
		return err == nil
	})
	if err != nil {
		return fmt.Errorf("writing redirects: %w", err)
	}
	return bw.Flush()
}

// ReadText reads tab separated redirects.  sizeHint, if positive,
// presizes the index.
//
// A line without both fields is an ErrMalformedRecord.  When a source
// appears more than once the last target wins.
func ReadText(r io.Reader, sizeHint int) (*Redirects, error) {
	rv := NewRedirectsSize(sizeHint)
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineSize)
	lineno := 0
	for s.Scan() {
		lineno++
		fields := splitFields(s.Text())
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: %q",
				ErrMalformedRecord, lineno, s.Text())
		}
		rv.Put(fields[0], fields[1])
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading redirects: %w", err)
	}
	return rv, nil
}

// CountLines counts the lines in r.  A final line without a newline
// is counted.
func CountLines(r io.Reader) (int, error) {
	buf := make([]byte, 64*1024)
	count := 0
	last := byte('\n')
	for {
		n, err := r.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if last != '\n' {
		count++
	}
	return count, nil
}

func countFileLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := CountLines(f)
	if err != nil {
		return 0, fmt.Errorf("counting lines in %v: %w", path, err)
	}
	return n, nil
}
