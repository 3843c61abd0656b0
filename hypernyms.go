package wikiredirect

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Hypernyms maps a term to the broader terms associated with it, in
// the order they were seen.  Repeated values are kept.
type Hypernyms struct {
	values map[string][]string
	order  []string
}

// NewHypernyms gets an empty index with room for n keys.
func NewHypernyms(n int) *Hypernyms {
	if n < 0 {
		n = 0
	}
	return &Hypernyms{
		values: make(map[string][]string, n),
		order:  make([]string, 0, n),
	}
}

// PutOrAppend adds value to the end of the values for key.
func (h *Hypernyms) PutOrAppend(key, value string) {
	vs, exists := h.values[key]
	if !exists {
		h.order = append(h.order, key)
	}
	h.values[key] = append(vs, value)
}

// Get returns the values for key.
func (h *Hypernyms) Get(key string) ([]string, bool) {
	vs, ok := h.values[key]
	return vs, ok
}

// Len is the number of keys.
func (h *Hypernyms) Len() int {
	return len(h.values)
}

// Each calls f for every key until f returns false.
func (h *Hypernyms) Each(f func(key string, values []string) bool) {
	for _, k := range h.order {
		if !f(k, h.values[k]) {
			return
		}
	}
}

// ReadHypernyms reads "word<TAB>hypernym" lines.
//
// Lines with fewer than two fields are skipped, fields past the second
// are ignored.  sizeHint, if positive, presizes the index.
func ReadHypernyms(r io.Reader, sizeHint int) (*Hypernyms, error) {
	h := NewHypernyms(sizeHint)
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineSize)
	for s.Scan() {
		fields := splitFields(s.Text())
		if len(fields) < 2 {
			continue
		}
		h.PutOrAppend(fields[0], fields[1])
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading hypernyms: %w", err)
	}
	return h, nil
}

// LoadHypernyms reads a hypernym file, counting its lines first to
// size the index.
func LoadHypernyms(path string) (*Hypernyms, error) {
	if err := checkInput(path); err != nil {
		return nil, err
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

	return ReadHypernyms(f, n)
}
