package wikiredirect

import (
	"reflect"
	"testing"
)

func TestRedirectsOverwrite(t *testing.T) {
	r := NewRedirects()
	r.Put("k", "v1")
	r.Put("k", "v2")

	if got, ok := r.Get("k"); !ok || got != "v2" {
		t.Fatalf("Expected v2, got %q (%v)", got, ok)
	}
	if r.Len() != 1 {
		t.Errorf("Expected one entry, got %v", r.Len())
	}
	if _, ok := r.Get("missing"); ok {
		t.Errorf("Expected missing key to be absent")
	}
}

func TestSourcesByTarget(t *testing.T) {
	r := NewRedirectsSize(8)
	for _, e := range []Redirect{
		{"UK", "United Kingdom"},
		{"Anarchist", "Anarchism"},
		{"U.K.", "United Kingdom"},
		{"Britain", "Great Britain"},
		{"UK", "United Kingdom"},
		{"Great Britain and Northern Ireland", "United Kingdom"},
		{"Britain", "United Kingdom"},
	} {
		r.Put(e.Source, e.Target)
	}

	exp := []string{"UK", "U.K.", "Britain", "Great Britain and Northern Ireland"}
	got := r.SourcesByTarget("United Kingdom")
	if !reflect.DeepEqual(got, exp) {
		t.Errorf("Expected %v, got %v", exp, got)
	}
	if got := r.SourcesByTarget("Great Britain"); len(got) != 0 {
		t.Errorf("Expected no sources for an overwritten target, got %v", got)
	}

	// Every source must show up in the reverse lookup of its target.
	r.Each(func(source, target string) bool {
		found := false
		for _, s := range r.SourcesByTarget(target) {
			found = found || s == source
		}
		if !found {
			t.Errorf("%v not found in sources of %v", source, target)
		}
		return true
	})
}

func TestRedirectsEachStops(t *testing.T) {
	r := NewRedirects()
	r.Put("a", "1")
	r.Put("b", "2")
	r.Put("c", "3")

	var seen []string
	r.Each(func(source, target string) bool {
		seen = append(seen, source)
		return len(seen) < 2
	})
	if !reflect.DeepEqual(seen, []string{"a", "b"}) {
		t.Errorf("Expected to stop after two, saw %v", seen)
	}
}
