package wikiredirect

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestHypernymsAccumulate(t *testing.T) {
	h := NewHypernyms(0)
	h.PutOrAppend("k", "v1")
	h.PutOrAppend("k", "v2")
	h.PutOrAppend("k", "v1")

	got, ok := h.Get("k")
	if !ok {
		t.Fatalf("Expected k to be present")
	}
	if exp := []string{"v1", "v2", "v1"}; !reflect.DeepEqual(got, exp) {
		t.Errorf("Expected %v, got %v", exp, got)
	}
	if h.Len() != 1 {
		t.Errorf("Expected one key, got %v", h.Len())
	}
}

const testHypernyms = "cat\tmammal\textra\n" +
	"lonely\n" +
	"dog\tmammal\n" +
	"cat\tpet\n" +
	"\n" +
	"trailing\t\n" +
	"sparrow\tbird"

func TestReadHypernyms(t *testing.T) {
	h, err := ReadHypernyms(strings.NewReader(testHypernyms), 0)
	if err != nil {
		t.Fatalf("Error reading hypernyms: %v", err)
	}

	tests := []struct {
		key string
		exp []string
	}{
		{"cat", []string{"mammal", "pet"}},
		{"dog", []string{"mammal"}},
		{"sparrow", []string{"bird"}},
	}
	for _, test := range tests {
		got, _ := h.Get(test.key)
		if !reflect.DeepEqual(got, test.exp) {
			t.Errorf("%v: expected %v, got %v", test.key, test.exp, got)
		}
	}

	for _, k := range []string{"lonely", "trailing", ""} {
		if _, ok := h.Get(k); ok {
			t.Errorf("Expected %q to be skipped", k)
		}
	}

	var keys []string
	h.Each(func(k string, _ []string) bool {
		keys = append(keys, k)
		return true
	})
	if exp := []string{"cat", "dog", "sparrow"}; !reflect.DeepEqual(keys, exp) {
		t.Errorf("Expected keys %v, got %v", exp, keys)
	}
}

func TestLoadHypernyms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hypernyms.txt")
	if err := os.WriteFile(path, []byte(testHypernyms), 0644); err != nil {
		t.Fatalf("Error writing test file: %v", err)
	}

	h, err := LoadHypernyms(path)
	if err != nil {
		t.Fatalf("Error loading hypernyms: %v", err)
	}
	if h.Len() != 3 {
		t.Errorf("Expected 3 keys, got %v", h.Len())
	}

	if _, err := LoadHypernyms(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Errorf("Expected an error loading a missing file")
	}
}
